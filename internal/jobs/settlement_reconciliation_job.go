package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultReconcileSchedule = "@every 1m"

type reconcileHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileSettlementsCommand) (commands.ReconcileReport, error)
}

// SettlementReconciliationJob periodically resolves deductions the webhook
// never confirmed and retries transfers that were left behind.
type SettlementReconciliationJob struct {
	handler  reconcileHandler
	schedule string
	minAge   time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSettlementReconciliationJob creates the job. minAge keeps it away from
// deductions whose webhook may still arrive; timeout bounds a single run.
func NewSettlementReconciliationJob(
	handler reconcileHandler,
	schedule string,
	minAge, timeout time.Duration,
	logger *slog.Logger,
) *SettlementReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	return &SettlementReconciliationJob{
		handler:  handler,
		schedule: schedule,
		minAge:   minAge,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "settlement_reconciliation_job"),
	}
}

// Start registers the run on the configured schedule.
func (j *SettlementReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement reconciliation job started", "schedule", j.schedule)
	return nil
}

// RunOnce executes a single reconciliation pass.
func (j *SettlementReconciliationJob) RunOnce(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	cmd, err := commands.NewReconcileSettlementsCommand(j.minAge, commands.DefaultReconcileBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Settlement reconciliation misconfigured", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Settlement reconciliation job failed", "error", err)
		return
	}
	if report == (commands.ReconcileReport{}) {
		return
	}
	j.logger.InfoContext(ctx, "Settlement reconciliation finished",
		"resolved", report.Resolved,
		"still_pending", report.StillPending,
		"transferred", report.Transferred,
		"failed", report.Failed)
}

// Stop waits for a running pass to finish.
func (j *SettlementReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Settlement reconciliation job stopped")
}
