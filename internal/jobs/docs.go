// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	reconcile := jobs.NewSettlementReconciliationJob(handler, "@every 1m", time.Minute, 30*time.Second, logger)
//	jobManager := jobs.NewJobManager(reconcile)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// SettlementReconciliationJob asks the payment processor about deductions
// that stayed PENDING and funds transfers for delivered jobs whose deduction
// completed without a transfer. Runs never overlap.
package jobs
