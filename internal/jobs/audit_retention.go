// File: internal/jobs/audit_retention.go
package jobs

import (
	"context"
	"time"

	"docsign_web/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner deletes expired audit events.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// AuditRetentionJob periodically removes audit events past their retention.
type AuditRetentionJob struct {
	pruner        Pruner
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewAuditRetentionJob creates a new AuditRetentionJob.
func NewAuditRetentionJob(pruner Pruner, logger *zap.Logger, cfg *config.Config) *AuditRetentionJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)

	return &AuditRetentionJob{
		pruner:        pruner,
		logger:        logger.Named("AuditRetentionJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *AuditRetentionJob) SetupAndStart() error {
	jobSpec := j.cfg.AuditRetentionJobSchedule
	if jobSpec == "" || j.cfg.AuditRetentionDays <= 0 {
		j.logger.Warn("Audit retention job disabled (AUDIT_RETENTION_JOB_SCHEDULE or AUDIT_RETENTION_DAYS unset).")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule audit retention job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Audit retention job scheduled",
		zap.String("spec", jobSpec),
		zap.Int("retention_days", j.cfg.AuditRetentionDays),
		zap.Any("jobID", jobID),
	)
	j.cronScheduler.Start()
	return nil
}

func (j *AuditRetentionJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Audit retention job run failed", zap.Error(err))
	}
}

// RunOnce prunes immediately and reports how many events were removed.
func (j *AuditRetentionJob) RunOnce(ctx context.Context) (int64, error) {
	j.logger.Info("Starting audit retention run...")
	deleted, err := j.pruner.Prune(ctx)
	if err != nil {
		return 0, err
	}
	j.logger.Info("Audit retention run completed", zap.Int64("events_deleted", deleted))
	return deleted, nil
}

// Stop gracefully stops the cron scheduler.
func (j *AuditRetentionJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping audit retention scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Audit retention scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Audit retention scheduler stop timed out.")
	}
}
