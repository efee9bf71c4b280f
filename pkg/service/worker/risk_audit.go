package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/errutil"
	"github.com/secmon-lab/hra/pkg/utils/logging"
)

// Auditor scans the stored HRA records for drifted risk evaluations
type Auditor interface {
	Scan(ctx context.Context) (*usecase.AuditReport, error)
}

// RiskAuditWorker periodically checks that stored risk codes and tiers still match the matrix.
// It only reports drift; records are rewritten by the recompute command.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type RiskAuditWorker struct {
	auditor  Auditor
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewRiskAuditWorker(auditor Auditor, interval time.Duration) *RiskAuditWorker {
	return &RiskAuditWorker{
		auditor:  auditor,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the audit loop in the background. The first audit runs immediately.
func (w *RiskAuditWorker) Start(ctx context.Context) error {
	logging.Default().Info("Risk audit worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *RiskAuditWorker) Stop() {
	logging.Default().Info("Risk audit worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Risk audit worker stopped")
}

func (w *RiskAuditWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.audit(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.audit(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Risk audit worker context cancelled")
			return
		}
	}
}

func (w *RiskAuditWorker) audit(ctx context.Context) {
	startTime := time.Now()

	report, err := w.auditor.Scan(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "Risk audit failed (will retry next interval)")
		return
	}

	for _, d := range report.Drifts {
		logging.Default().Warn("Stored risk evaluation disagrees with matrix",
			"hra_id", d.HRAID,
			"control", d.Control,
			"likelihood", d.Stored.Likelihood,
			"severity", d.Stored.Severity,
			"stored_code", d.Stored.Code,
			"expected_code", d.Expected.Code,
		)
	}

	logging.Default().Info("Risk audit completed",
		"scanned", report.Scanned,
		"drifted", len(report.DriftedIDs()),
		"duration", time.Since(startTime).String())
}
