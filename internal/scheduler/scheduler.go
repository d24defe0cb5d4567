package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
	"github.com/mamadbah2/stockpilot/internal/service/reporting"
	"github.com/mamadbah2/stockpilot/internal/service/whatsapp"
)

const jobTimeout = 2 * time.Minute

// DayCloser closes the business day.
type DayCloser interface {
	CloseDay(ctx context.Context, closedBy string) (models.DailyCutRecord, string, error)
}

// SessionSource tells whether the terminal holds a session to act with.
type SessionSource interface {
	Current() (models.Session, bool)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	schedule     string
	closer       DayCloser
	sessions     SessionSource
	renderer     reporting.Renderer
	messagingSvc whatsapp.MessagingService
	logger       *zap.Logger
}

// NewScheduler creates a scheduler running in the configured time zone.
// messagingSvc and renderer may be nil.
func NewScheduler(cfg config.ReportingConfig, closer DayCloser, sessions SessionSource, renderer reporting.Renderer, messagingSvc whatsapp.MessagingService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler location: %w", err)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		schedule:     cfg.CronSchedule,
		closer:       closer,
		sessions:     sessions,
		renderer:     renderer,
		messagingSvc: messagingSvc,
		logger:       logger,
	}, nil
}

// Start registers the daily cash-cut job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.closeDay); err != nil {
		return fmt.Errorf("schedule daily cash cut %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) closeDay() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailyCut(ctx); err != nil {
		s.logger.Error("daily cash cut failed", zap.Error(err))
	}
}

// RunDailyCut closes the day with the stored session and sends the result
// when messaging is configured. Without a session it does nothing.
func (s *Scheduler) RunDailyCut(ctx context.Context) error {
	current, ok := s.sessions.Current()
	if !ok {
		s.logger.Info("daily cash cut skipped, no session stored")
		return nil
	}

	s.logger.Info("closing day", zap.String("closed_by", current.Username))
	record, summary, storeErr := s.closer.CloseDay(ctx, current.Username)
	if record.Date == "" {
		return storeErr
	}
	if storeErr != nil {
		// The cut exists even when a store failed; still notify.
		s.logger.Warn("cash cut closed with storage errors", zap.Error(storeErr))
	}

	if s.messagingSvc == nil {
		return storeErr
	}

	var doc []byte
	if s.renderer != nil {
		rendered, err := s.renderer.DailyCut(record)
		if err != nil {
			s.logger.Warn("cash cut pdf not rendered", zap.Error(err))
		} else {
			doc = rendered
		}
	}

	if err := s.messagingSvc.SendDailyCut(ctx, summary, record.Date, doc); err != nil {
		return errors.Join(storeErr, fmt.Errorf("send daily cash cut: %w", err))
	}
	s.logger.Info("daily cash cut sent", zap.String("date", record.Date))
	return storeErr
}
