// Package safe holds cleanup helpers whose failure is logged and never changes the caller's result.
package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/hra/pkg/utils/logging"
)

// Close closes c, logging a failure against target. A nil c is ignored.
func Close(ctx context.Context, target string, c io.Closer) {
	if c == nil {
		return
	}
	Do(ctx, target, c.Close)
}

// Do runs a cleanup step such as removing temporary files
func Do(ctx context.Context, target string, fn func() error) {
	if err := fn(); err != nil {
		logging.From(ctx).Warn("cleanup failed",
			slog.String("target", target),
			slog.String("error", err.Error()))
	}
}

// Write sends a body after the status line is committed, so a failed or short write can only be logged
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		logging.From(ctx).Warn("response write failed",
			slog.Int("written", n),
			slog.Int("size", len(data)),
			slog.String("error", err.Error()))
	}
}
