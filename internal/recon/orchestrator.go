package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akwasiboateng/campus-market/internal"
)

type OrchestratorConfig struct {
	// RunTimeout bounds one full run; zero means no deadline.
	RunTimeout time.Duration
	// ContinueOnStageFailure keeps the transfer stage running after a
	// transaction-stage failure instead of aborting the run.
	ContinueOnStageFailure bool
}

// Orchestrator is the single entry point for scheduled or administrative
// invocation: the transaction stage, then the transfer stage, strictly
// sequential. Each stage is wrapped independently so a failure in one is an
// explicit per-stage result, not an implicit propagation.
type Orchestrator struct {
	service                *Service
	logger                 *slog.Logger
	runTimeout             time.Duration
	continueOnStageFailure bool
}

func NewOrchestrator(service *Service, config OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		service:                service,
		logger:                 logger,
		runTimeout:             config.RunTimeout,
		continueOnStageFailure: config.ContinueOnStageFailure,
	}
}

// SyncAll runs both stages and reports per-stage outcomes.
func (o *Orchestrator) SyncAll(ctx context.Context) *RunReport {
	ctx, cancel, runID := o.beginRun(ctx)
	defer cancel()

	report := &RunReport{RunID: runID, StartedAt: time.Now()}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	o.logger.Info("sync run started", "run_id", runID)

	txReport, txErr := o.service.SyncTransactionsToPayments(ctx)
	report.Transactions = stageResult(txReport, txErr)
	if txErr != nil {
		o.logger.Error("transaction stage failed",
			"run_id", runID,
			"continue", o.continueOnStageFailure,
			"error", txErr)
		if !o.continueOnStageFailure {
			return report
		}
	}

	trReport, trErr := o.service.SyncTransfersToPayouts(ctx)
	report.Transfers = stageResult(trReport, trErr)
	if trErr != nil {
		o.logger.Error("transfer stage failed", "run_id", runID, "error", trErr)
	}

	o.logger.Info("sync run finished", "run_id", runID, "duration", report.Duration)
	return report
}

// SyncTransactions runs only the transaction stage under the run deadline.
func (o *Orchestrator) SyncTransactions(ctx context.Context) (*StageReport, error) {
	ctx, cancel, _ := o.beginRun(ctx)
	defer cancel()
	return o.service.SyncTransactionsToPayments(ctx)
}

// SyncTransfers runs only the transfer stage under the run deadline.
func (o *Orchestrator) SyncTransfers(ctx context.Context) (*StageReport, error) {
	ctx, cancel, _ := o.beginRun(ctx)
	defer cancel()
	return o.service.SyncTransfersToPayouts(ctx)
}

func (o *Orchestrator) beginRun(ctx context.Context) (context.Context, context.CancelFunc, string) {
	runID := uuid.NewString()
	ctx = internal.ContextWithRunID(ctx, runID)

	if o.runTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, o.runTimeout)
		return ctx, cancel, runID
	}
	return ctx, func() {}, runID
}

func stageResult(report *StageReport, err error) StageResult {
	result := StageResult{Report: report, Err: err}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
