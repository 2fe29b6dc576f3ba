package jobs

import (
	"context"
	"fmt"

	"credify-backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// OTPPurge deletes expired login codes on a cron schedule.
type OTPPurge struct {
	cron   *cron.Cron
	purger Purger
	spec   string
}

func NewOTPPurge(p Purger, spec string) *OTPPurge {
	if spec == "" {
		spec = "@every 1m"
	}
	return &OTPPurge{cron: cron.New(), purger: p, spec: spec}
}

// RunOnce performs a single purge.
func (j *OTPPurge) RunOnce(ctx context.Context) {
	if _, err := j.purger.PurgeExpired(ctx); err != nil {
		logger.Error(ctx, "otp purge failed", zap.Error(err))
	}
}

// Start schedules the purge. The job stops when ctx is done or Stop is called.
func (j *OTPPurge) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule otp purge %q: %w", j.spec, err)
	}
	j.cron.Start()
	logger.Info(ctx, "otp purge scheduled", zap.String("spec", j.spec))
	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop waits for a running purge to finish.
func (j *OTPPurge) Stop() {
	<-j.cron.Stop().Done()
}
