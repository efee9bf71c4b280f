package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/async"
)

func hraFilterOf(r *http.Request) (interfaces.HRAFilter, error) {
	var filter interfaces.HRAFilter
	for name, dst := range map[string]*model.ReferenceID{
		"process_id":     &filter.ProcessID,
		"sub_process_id": &filter.SubProcessID,
		"activity_id":    &filter.ActivityID,
	} {
		v, err := int64Query(r, name)
		if err != nil {
			return filter, err
		}
		*dst = model.ReferenceID(v)
	}
	return filter, nil
}

func (s *Server) listHRAHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := hraFilterOf(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.uc.HRA.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toHRAResponses(records))
}

func (s *Server) hraGroupsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := hraFilterOf(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	groups, err := s.uc.HRA.Groups(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]hraGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, hraGroupResponse{
			SubProcessID: int64(g.Key),
			ProcessID:    int64(g.Parent),
			Records:      toHRAResponses(g.Records),
		})
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) hraActivityGroupsHandler(w http.ResponseWriter, r *http.Request) {
	subProcessID, err := int64Param(r, "subProcessID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	groups, err := s.uc.HRA.ActivityGroups(r.Context(), model.ReferenceID(subProcessID))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]activityGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, activityGroupResponse{
			ActivityID:    int64(g.Key.ActivityID),
			SubActivityID: int64(g.Key.SubActivityID),
			Records:       toHRAResponses(g.Records),
		})
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) getHRAHandler(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	h, err := s.uc.HRA.Get(r.Context(), model.HRAID(id))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toHRAResponse(h))
}

func (s *Server) createHRAHandler(w http.ResponseWriter, r *http.Request) {
	var req hraRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.HRA.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.refreshAudit(r.Context())
	writeJSON(r.Context(), w, http.StatusCreated, toHRAResponse(created))
}

func (s *Server) updateHRAHandler(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req hraRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.uc.HRA.Update(r.Context(), model.HRAID(id), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.refreshAudit(r.Context())
	writeJSON(r.Context(), w, http.StatusOK, toHRAResponse(updated))
}

func (s *Server) deleteHRAHandler(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.HRA.Delete(r.Context(), model.HRAID(id)); err != nil {
		handleError(w, r, err)
		return
	}
	s.refreshAudit(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadHRAPhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	kind := usecase.PhotoKind(chi.URLParam(r, "kind"))

	var updated *model.HRA
	err = withPhoto(w, r, func(photo usecase.Photo) error {
		var err error
		updated, err = s.uc.HRA.UploadPhoto(r.Context(), model.HRAID(id), kind, photo)
		return err
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toHRAResponse(updated))
}

// refreshAudit updates the drift gauge after a write without holding the response
func (s *Server) refreshAudit(ctx context.Context) {
	if !s.auditOnWrite {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := s.uc.Audit.Scan(ctx)
		return err
	})
}
