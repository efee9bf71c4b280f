package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/errutil"
	"github.com/secmon-lab/hra/pkg/utils/safe"
)

const maxJSONBodySize = 1 << 20

var errBadRequest = errors.New("bad request")

// statusOf maps sentinel errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidReference),
		errors.Is(err, usecase.ErrInvalidAccount),
		errors.Is(err, usecase.ErrUnsupportedPhoto):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrHRANotFound),
		errors.Is(err, usecase.ErrReferenceNotFound),
		errors.Is(err, usecase.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSurveyAlreadySubmitted),
		errors.Is(err, usecase.ErrDuplicateReference),
		errors.Is(err, usecase.ErrReferenceInUse),
		errors.Is(err, usecase.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, usecase.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerr.Wrap(errBadRequest, "unexpected data after JSON body")
	}
	return nil
}

// int64Param parses a numeric URL parameter
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, goerr.Wrap(errBadRequest, "invalid path parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}

// int64Query parses an optional numeric query parameter; absent means zero
func int64Query(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, goerr.Wrap(errBadRequest, "invalid query parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}
