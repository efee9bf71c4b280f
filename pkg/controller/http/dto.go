package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/usecase"
)

type evaluationResponse struct {
	Likelihood int    `json:"likelihood"`
	Severity   int    `json:"severity"`
	Score      int    `json:"score"`
	RiskCode   string `json:"risk_code"`
	RiskTier   string `json:"risk_tier"`
}

func toEvaluationResponse(e model.RiskEvaluation) evaluationResponse {
	return evaluationResponse{
		Likelihood: int(e.Likelihood),
		Severity:   int(e.Severity),
		Score:      e.Score,
		RiskCode:   string(e.Code),
		RiskTier:   string(e.Tier),
	}
}

// evaluateRequest keeps ratings raw so that fractional or quoted values reach the evaluator as invalid input
type evaluateRequest struct {
	Likelihood json.RawMessage `json:"likelihood"`
	Severity   json.RawMessage `json:"severity"`
}

// levelText renders a raw JSON rating for parsing. Absent and null ratings are empty.
func levelText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return s
}

// levelValue reads an optional integer rating; absent and null ratings are zero
func levelValue(name string, raw json.RawMessage) (int, error) {
	s := levelText(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(model.ErrInvalidInput, name+" is not an integer", goerr.V(name, s))
	}
	return v, nil
}

type levelResponse struct {
	Score       int    `json:"score"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type matrixResponse struct {
	Likelihood []levelResponse        `json:"likelihood"`
	Severity   []levelResponse        `json:"severity"`
	Rows       [][]evaluationResponse `json:"rows"`
}

func toMatrixResponse(view *usecase.MatrixView) matrixResponse {
	resp := matrixResponse{
		Likelihood: make([]levelResponse, 0, len(view.Likelihood)),
		Severity:   make([]levelResponse, 0, len(view.Severity)),
		Rows:       make([][]evaluationResponse, 0, len(view.Rows)),
	}
	for _, l := range view.Likelihood {
		resp.Likelihood = append(resp.Likelihood, levelResponse{Score: int(l.Score), Name: l.Name, Description: l.Description})
	}
	for _, s := range view.Severity {
		resp.Severity = append(resp.Severity, levelResponse{Score: int(s.Score), Name: s.Name, Description: s.Description})
	}
	for _, row := range view.Rows {
		cells := make([]evaluationResponse, 0, len(row))
		for _, c := range row {
			cells = append(cells, evaluationResponse{
				Likelihood: int(c.Likelihood),
				Severity:   int(c.Severity),
				Score:      c.Score,
				RiskCode:   string(c.Code),
				RiskTier:   string(c.Tier),
			})
		}
		resp.Rows = append(resp.Rows, cells)
	}
	return resp
}

type referenceRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

type referenceResponse struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Code         string    `json:"code,omitempty"`
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	ParentID     int64     `json:"parent_id,omitempty"`
	AnimationURL string    `json:"animation_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toReferenceResponse(r *model.Reference) referenceResponse {
	return referenceResponse{
		ID:           int64(r.ID),
		Kind:         string(r.Kind),
		Code:         r.Code,
		Name:         r.Name,
		Label:        r.Label(),
		ParentID:     int64(r.ParentID),
		AnimationURL: r.AnimationURL,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toReferenceResponses(refs []*model.Reference) []referenceResponse {
	resp := make([]referenceResponse, 0, len(refs))
	for _, r := range refs {
		resp = append(resp, toReferenceResponse(r))
	}
	return resp
}

// hraRequest carries the form fields. Derived risk fields sent by clients have no field here and are dropped.
type hraRequest struct {
	ProcessID             int64   `json:"process_id"`
	SubProcessID          int64   `json:"sub_process_id"`
	ActivityID            int64   `json:"activity_id"`
	SubActivityID         int64   `json:"sub_activity_id"`
	HealthHazardID        int64   `json:"health_hazard_id"`
	HealthRiskID          int64   `json:"health_risk_id"`
	OperationManagementID int64   `json:"operation_management_id"`
	ControlHierarchyIDs   []int64 `json:"control_hierarchy_ids"`

	PreventiveControl string `json:"preventive_control"`
	DetectiveControl  string `json:"detective_control"`
	MitigativeControl string `json:"mitigative_control"`

	LikelihoodWithoutControl json.RawMessage `json:"likelihood_without_control"`
	SeverityWithoutControl   json.RawMessage `json:"severity_without_control"`
	LikelihoodWithControl    json.RawMessage `json:"likelihood_with_control"`
	SeverityWithControl      json.RawMessage `json:"severity_with_control"`
}

func (req *hraRequest) toInput() (usecase.HRAInput, error) {
	var levels [4]int
	for i, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"likelihood_without_control", req.LikelihoodWithoutControl},
		{"severity_without_control", req.SeverityWithoutControl},
		{"likelihood_with_control", req.LikelihoodWithControl},
		{"severity_with_control", req.SeverityWithControl},
	} {
		v, err := levelValue(f.name, f.raw)
		if err != nil {
			return usecase.HRAInput{}, err
		}
		levels[i] = v
	}

	controls := make([]model.ReferenceID, 0, len(req.ControlHierarchyIDs))
	for _, id := range req.ControlHierarchyIDs {
		controls = append(controls, model.ReferenceID(id))
	}

	return usecase.HRAInput{
		HRAContent: model.HRAContent{
			ProcessID:             model.ReferenceID(req.ProcessID),
			SubProcessID:          model.ReferenceID(req.SubProcessID),
			ActivityID:            model.ReferenceID(req.ActivityID),
			SubActivityID:         model.ReferenceID(req.SubActivityID),
			HealthHazardID:        model.ReferenceID(req.HealthHazardID),
			HealthRiskID:          model.ReferenceID(req.HealthRiskID),
			OperationManagementID: model.ReferenceID(req.OperationManagementID),
			ControlHierarchyIDs:   controls,
			PreventiveControl:     req.PreventiveControl,
			DetectiveControl:      req.DetectiveControl,
			MitigativeControl:     req.MitigativeControl,
		},
		WithoutControl: usecase.RiskPair{
			Likelihood: types.Likelihood(levels[0]),
			Severity:   types.Severity(levels[1]),
		},
		WithControl: usecase.RiskPair{
			Likelihood: types.Likelihood(levels[2]),
			Severity:   types.Severity(levels[3]),
		},
	}, nil
}

type hraResponse struct {
	ID                    int64   `json:"id"`
	ProcessID             int64   `json:"process_id"`
	SubProcessID          int64   `json:"sub_process_id"`
	ActivityID            int64   `json:"activity_id"`
	SubActivityID         int64   `json:"sub_activity_id,omitempty"`
	HealthHazardID        int64   `json:"health_hazard_id"`
	HealthRiskID          int64   `json:"health_risk_id"`
	OperationManagementID int64   `json:"operation_management_id,omitempty"`
	ControlHierarchyIDs   []int64 `json:"control_hierarchy_ids"`

	PreventiveControl string `json:"preventive_control"`
	DetectiveControl  string `json:"detective_control"`
	MitigativeControl string `json:"mitigative_control"`

	HazardPhotoURL string `json:"hazard_photo_url,omitempty"`
	RiskPhotoURL   string `json:"risk_photo_url,omitempty"`

	WithoutControl evaluationResponse `json:"without_control"`
	WithControl    evaluationResponse `json:"with_control"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toHRAResponse(h *model.HRA) hraResponse {
	controls := make([]int64, 0, len(h.ControlHierarchyIDs))
	for _, id := range h.ControlHierarchyIDs {
		controls = append(controls, int64(id))
	}

	return hraResponse{
		ID:                    int64(h.ID),
		ProcessID:             int64(h.ProcessID),
		SubProcessID:          int64(h.SubProcessID),
		ActivityID:            int64(h.ActivityID),
		SubActivityID:         int64(h.SubActivityID),
		HealthHazardID:        int64(h.HealthHazardID),
		HealthRiskID:          int64(h.HealthRiskID),
		OperationManagementID: int64(h.OperationManagementID),
		ControlHierarchyIDs:   controls,
		PreventiveControl:     h.PreventiveControl,
		DetectiveControl:      h.DetectiveControl,
		MitigativeControl:     h.MitigativeControl,
		HazardPhotoURL:        h.HazardPhotoURL,
		RiskPhotoURL:          h.RiskPhotoURL,
		WithoutControl:        toEvaluationResponse(h.WithoutControl),
		WithControl:           toEvaluationResponse(h.WithControl),
		CreatedBy:             string(h.CreatedBy),
		CreatedAt:             h.CreatedAt,
		UpdatedAt:             h.UpdatedAt,
	}
}

func toHRAResponses(records []*model.HRA) []hraResponse {
	resp := make([]hraResponse, 0, len(records))
	for _, h := range records {
		resp = append(resp, toHRAResponse(h))
	}
	return resp
}

type hraGroupResponse struct {
	SubProcessID int64         `json:"sub_process_id"`
	ProcessID    int64         `json:"process_id"`
	Records      []hraResponse `json:"records"`
}

type activityGroupResponse struct {
	ActivityID    int64         `json:"activity_id"`
	SubActivityID int64         `json:"sub_activity_id,omitempty"`
	Records       []hraResponse `json:"records"`
}

type surveyRequest struct {
	HRAID int64 `json:"hra_id"`
}

type surveyAnswerResponse struct {
	ID        string    `json:"id"`
	HRAID     int64     `json:"hra_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func toSurveyAnswerResponses(answers []*model.JobSurveyAnswer) []surveyAnswerResponse {
	resp := make([]surveyAnswerResponse, 0, len(answers))
	for _, a := range answers {
		resp = append(resp, surveyAnswerResponse{
			ID:        string(a.ID),
			HRAID:     int64(a.HRAID),
			Question:  a.Question,
			Answer:    a.Answer,
			CreatedAt: a.CreatedAt,
		})
	}
	return resp
}

type surveyTodayResponse struct {
	Day       string                 `json:"day"`
	Submitted bool                   `json:"submitted"`
	Answers   []surveyAnswerResponse `json:"answers"`
}

type accountRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountResponse(a *model.Account) accountResponse {
	return accountResponse{
		ID:        string(a.ID),
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(a.Role),
		PhotoURL:  a.PhotoURL,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
