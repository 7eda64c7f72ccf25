package jobs

import (
	"context"

	"github.com/wonny/swingpick/internal/pipeline"
	"github.com/wonny/swingpick/pkg/logger"
)

// AlertJob runs the daily pick alert on schedule
// ⭐ SSOT: 알림 스케줄은 이 Job에서만
type AlertJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewAlertJob creates a new alert job
func NewAlertJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *AlertJob {
	return &AlertJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *AlertJob) Name() string {
	return "daily_alert"
}

// Schedule returns the cron schedule (기본: 평일 16:10, 장마감 후)
func (j *AlertJob) Schedule() string {
	return j.schedule
}

// Run executes one alert run
func (j *AlertJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled alert run")
	return j.runner.Run(ctx)
}
