package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerService runs periodic jobs such as digests and automatic backups.
type SchedulerService struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewSchedulerService(loc *time.Location, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(name, timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(name, timeStr)
	if err != nil {
		return 0, err
	}
	return s.add(name, spec, job)
}

// ScheduleInterval registers a job running every interval, rounded to whole seconds.
func (s *SchedulerService) ScheduleInterval(name string, interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.add(name, fmt.Sprintf("@every %ds", seconds), job)
}

func (s *SchedulerService) add(name, spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("run job", zap.String("job", name))
		job()
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return id, nil
}

// Next reports when entry id fires next.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// buildDailySpec turns a clock time such as "07:30" into a seconds-first cron spec.
func buildDailySpec(name, clock string) (string, error) {
	at, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return "", fmt.Errorf("schedule %s: time %q is not HH:MM", name, clock)
	}
	return fmt.Sprintf("0 %d %d * * *", at.Minute(), at.Hour()), nil
}
