package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/utils/logging"
)

// Handle logs the error with its goerr context and reports it to Sentry.
// It is a no-op for nil errors.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logging.From(ctx).Error(msg, errorAttrs(err, true)...)
	report(ctx, err)
}

// HandleHTTP logs the error and writes a JSON error response. Server errors are reported to
// Sentry and their detail is not exposed to the client.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		attrs := append([]any{slog.Int("status", statusCode)}, errorAttrs(err, true)...)
		logging.From(ctx).Error("HTTP error", attrs...)
		report(ctx, err)
		message = http.StatusText(statusCode)
	} else {
		// Client errors are logged without a stack.
		attrs := append([]any{slog.Int("status", statusCode)}, errorAttrs(err, false)...)
		logging.From(ctx).Info("HTTP client error", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": message}); encErr != nil {
		logging.From(ctx).Error("failed to write error response", slog.Any("error", encErr))
	}
}

func errorAttrs(err error, withStack bool) []any {
	attrs := []any{slog.String("error", err.Error())}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs, slog.Any("values", ge.Values()))
		if withStack {
			attrs = append(attrs, slog.Any("stack", ge.Stacks()))
		}
	}
	return attrs
}

func report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		var ge *goerr.Error
		if errors.As(err, &ge) {
			scope.SetContext("goerr", sentry.Context(ge.Values()))
		}
		hub.CaptureException(err)
	})
}
