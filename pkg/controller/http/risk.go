package http

import "net/http"

func (s *Server) riskMatrixHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, toMatrixResponse(s.uc.Matrix.Matrix()))
}

// evaluateHandler evaluates a single pair; missing, null and non-integer ratings are rejected as invalid input
func (s *Server) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	eval, err := s.uc.Matrix.EvaluateText(levelText(req.Likelihood), levelText(req.Severity))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toEvaluationResponse(eval))
}
