package jobs

import (
	"context"
	"errors"
	"time"

	"fleet-rental-pricing/internal/config"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals service.RentalService
	config  *config.Config
	timeout time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals service.RentalService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals: rentals,
		config:  cfg,
		timeout: time.Minute,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// IssuePendingPayments settles every pending statement of every stored rental
func (jr *JobRunner) IssuePendingPayments() {
	jr.runWithRecovery("IssuePendingPayments", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		issued, err := jr.rentals.IssueAllPayments(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WarnContext(ctx, "Settlement run timed out, remaining statements wait for the next run", "issued", issued)
			return
		}
		if err != nil {
			logger.Error("Failed to issue pending payments", "issued", issued, "error", err)
			return
		}
		logger.InfoContext(ctx, "Issued pending payments", "statements", issued)
	})
}
