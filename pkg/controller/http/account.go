package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/usecase"
)

func (s *Server) listAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.uc.Account.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) getAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := s.uc.Account.Get(r.Context(), types.UserID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) createAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.Account.Create(r.Context(), &model.Account{
		ID:    types.UserID(req.ID),
		Email: req.Email,
		Name:  req.Name,
		Role:  types.Role(req.Role),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) updateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.uc.Account.Update(r.Context(), &model.Account{
		ID:    types.UserID(chi.URLParam(r, "id")),
		Email: req.Email,
		Name:  req.Name,
		Role:  types.Role(req.Role),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAccountResponse(updated))
}

func (s *Server) deleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Account.Delete(r.Context(), types.UserID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadAccountPhotoHandler(w http.ResponseWriter, r *http.Request) {
	id := types.UserID(chi.URLParam(r, "id"))

	var updated *model.Account
	err := withPhoto(w, r, func(photo usecase.Photo) error {
		var err error
		updated, err = s.uc.Account.UploadPhoto(r.Context(), id, photo)
		return err
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAccountResponse(updated))
}
