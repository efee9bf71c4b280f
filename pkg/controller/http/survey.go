package http

import (
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
)

const dayLayout = "2006-01-02"

// dayOf reads the optional ?day=YYYY-MM-DD parameter, defaulting to the current survey day
func (s *Server) dayOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("day")
	if raw == "" {
		return s.uc.Survey.Today(), nil
	}
	day, err := time.ParseInLocation(dayLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, goerr.Wrap(errBadRequest, "invalid day", goerr.V("day", raw))
	}
	return day, nil
}

func (s *Server) submitSurveyHandler(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.HRAID <= 0 {
		handleError(w, r, goerr.Wrap(errBadRequest, "hra_id is required"))
		return
	}

	answers, err := s.uc.Survey.Submit(r.Context(), model.HRAID(req.HRAID))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toSurveyAnswerResponses(answers))
}

func (s *Server) surveyTodayHandler(w http.ResponseWriter, r *http.Request) {
	today := s.uc.Survey.Today()
	answers, err := s.uc.Survey.Answers(r.Context(), today)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, surveyTodayResponse{
		Day:       today.Format(dayLayout),
		Submitted: len(answers) > 0,
		Answers:   toSurveyAnswerResponses(answers),
	})
}

func (s *Server) personalHRAHandler(w http.ResponseWriter, r *http.Request) {
	day, err := s.dayOf(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.uc.Survey.PersonalHRA(r.Context(), day)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toHRAResponses(records))
}
