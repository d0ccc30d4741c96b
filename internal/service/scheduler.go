package service

import (
	"context"
	"fmt"
	"time"

	"stock-watchlist/config"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the alert evaluation cycle on a cron schedule,
// restricted to the configured market-hours window. A cycle still running
// when the next tick fires is not overlapped, the tick is skipped.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	RunOnce(ctx context.Context) (*CycleResult, error)
}

type schedulerService struct {
	cfg    *config.Config
	log    *logger.Logger
	runner *AlertRunner
	window utils.MarketWindow
	cron   *cron.Cron
	now    func() time.Time
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, runner *AlertRunner) SchedulerService {
	window := utils.MarketWindow{
		Location:     utils.LoadLocation(cfg.Scheduler.Timezone),
		OpenHour:     cfg.Scheduler.MarketOpenHour,
		CloseHour:    cfg.Scheduler.MarketCloseHour,
		WeekdaysOnly: cfg.Scheduler.WeekdaysOnly,
	}

	return &schedulerService{
		cfg:    cfg,
		log:    log,
		runner: runner,
		window: window,
		now:    time.Now,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	s.cron = cron.New(
		cron.WithLocation(s.window.Location),
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		),
	)

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("register evaluation schedule: %w", err)
	}

	s.cron.Start()
	s.log.InfoContext(ctx, "Scheduler started",
		logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
		logger.StringField("timezone", s.cfg.Scheduler.Timezone))

	if s.cfg.Scheduler.RunOnStart {
		utils.GoSafe(func() {
			s.tick(ctx)
		})
	}
	return nil
}

// tick runs one scheduled evaluation, skipping when the market window is
// closed. Errors are logged, never propagated, so the daemon keeps its
// schedule.
func (s *schedulerService) tick(ctx context.Context) {
	now := s.now().In(s.window.Location)
	if !s.window.Contains(now) {
		s.log.InfoContext(ctx, "Outside market hours, skipping evaluation",
			logger.StringField("local_time", now.Format(time.RFC3339)))
		return
	}

	runCtx := ctx
	if s.cfg.Scheduler.TimeoutDuration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
		defer cancel()
	}

	result, err := s.runner.RunCycle(runCtx)
	if err != nil {
		s.log.ErrorContext(ctx, "Evaluation cycle failed", logger.ErrorField(err))
		return
	}
	s.log.InfoContext(ctx, "Evaluation cycle finished",
		logger.IntField("stocks", result.StocksChecked),
		logger.IntField("alerts", len(result.Alerts)),
		logger.StringField("duration", result.Duration))
}

// RunOnce executes a single evaluation cycle immediately, ignoring the
// market-hours window. Used by the manual check command and endpoint.
func (s *schedulerService) RunOnce(ctx context.Context) (*CycleResult, error) {
	return s.runner.RunCycle(ctx)
}

func (s *schedulerService) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.log.InfoContext(ctx, "Scheduler stopped")
}
