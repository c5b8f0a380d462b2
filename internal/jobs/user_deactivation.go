// File: internal/jobs/user_deactivation.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/config"
)

// DormantUserDeactivator flags accounts that have not logged in for the
// configured dormancy window.
type DormantUserDeactivator interface {
	DeactivateDormantUsers(ctx context.Context) (int64, error)
}

// UserDeactivationJob holds dependencies for the dormant user deactivation job.
type UserDeactivationJob struct {
	deactivator   DormantUserDeactivator
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewUserDeactivationJob creates a new UserDeactivationJob.
func NewUserDeactivationJob(
	deactivator DormantUserDeactivator,
	logger *zap.Logger,
	cfg *config.Config,
) *UserDeactivationJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &UserDeactivationJob{
		deactivator:   deactivator,
		logger:        logger.Named("UserDeactivationJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *UserDeactivationJob) SetupAndStart() error {
	jobSpec := j.cfg.UserDeactivationSchedule
	if jobSpec == "" {
		j.logger.Warn("User deactivation job schedule not defined (USER_DEACTIVATION_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule user deactivation job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("User deactivation job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *UserDeactivationJob) runJob() {
	j.logger.Info("Starting user deactivation job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deactivatedCount, err := j.deactivator.DeactivateDormantUsers(ctx)
	if err != nil {
		j.logger.Error("User deactivation job run failed", zap.Error(err))
	} else {
		j.logger.Info("User deactivation job run completed", zap.Int64("users_deactivated", deactivatedCount))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *UserDeactivationJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping user deactivation job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("User deactivation job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("User deactivation job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
