package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/runchengxie/a-share-animal-index/internal/brain"
	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/scheduler"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// DailyRunner runs the daily index computation for one date
type DailyRunner interface {
	RunDaily(ctx context.Context, date string) (*brain.DailyResult, error)
}

// DailyIndexJob computes the index for the current date after market close
// ⭐ SSOT: 일일 지수 스케줄은 이 Job에서만
type DailyIndexJob struct {
	runner   DailyRunner
	schedule string
	location *time.Location
	now      func() time.Time
	logger   *logger.Logger
}

// NewDailyIndexJob creates the daily index job
func NewDailyIndexJob(runner DailyRunner, schedule string, loc *time.Location, log *logger.Logger) *DailyIndexJob {
	if loc == nil {
		loc = time.Local
	}
	return &DailyIndexJob{
		runner:   runner,
		schedule: schedule,
		location: loc,
		now:      time.Now,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyIndexJob) Name() string {
	return "daily_index"
}

// Schedule returns the cron schedule (with seconds)
func (j *DailyIndexJob) Schedule() string {
	return j.schedule
}

// Run computes today's row. Rejections and data-quality failures are not retried.
func (j *DailyIndexJob) Run(ctx context.Context) error {
	date := j.now().In(j.location).Format("20060102")

	result, err := j.runner.RunDaily(ctx, date)
	if err != nil {
		if errors.Is(err, contracts.ErrDateRejected) || contracts.IsDataQuality(err) {
			return scheduler.Permanent(err)
		}
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"date":    date,
		"outcome": result.Outcome,
	}).Info("Daily index job finished")
	return nil
}
