package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/usecase"
)

func kindParam(r *http.Request) (types.ReferenceKind, error) {
	kind, err := types.ParseReferenceKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", goerr.Wrap(errBadRequest, err.Error())
	}
	return kind, nil
}

func (s *Server) listAllReferencesHandler(w http.ResponseWriter, r *http.Request) {
	set, err := s.uc.Reference.All(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make(map[string][]referenceResponse)
	for _, kind := range types.AllReferenceKinds() {
		resp[string(kind)] = toReferenceResponses(set.List(kind))
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) listReferencesHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	refs, err := s.uc.Reference.List(r.Context(), kind)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toReferenceResponses(refs))
}

func (s *Server) createReferenceHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req referenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.Reference.Create(r.Context(), &model.Reference{
		Kind:     kind,
		Code:     req.Code,
		Name:     req.Name,
		ParentID: model.ReferenceID(req.ParentID),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toReferenceResponse(created))
}

func (s *Server) updateReferenceHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req referenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.uc.Reference.Update(r.Context(), &model.Reference{
		ID:       model.ReferenceID(id),
		Kind:     kind,
		Code:     req.Code,
		Name:     req.Name,
		ParentID: model.ReferenceID(req.ParentID),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toReferenceResponse(updated))
}

func (s *Server) deleteReferenceHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Reference.Delete(r.Context(), kind, model.ReferenceID(id)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadAnimationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var updated *model.Reference
	err = withPhoto(w, r, func(photo usecase.Photo) error {
		var err error
		updated, err = s.uc.Reference.UploadAnimation(r.Context(), model.ReferenceID(id), photo)
		return err
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toReferenceResponse(updated))
}
