package retention

import (
	"context"
	"fmt"
	"time"

	"go-helpdesk/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepResult reports how many records one sweep removed per collection.
type SweepResult struct {
	Cutoff        time.Time `json:"cutoff"`
	AuditDeleted  int64     `json:"audit_deleted"`
	AppLogDeleted int64     `json:"app_log_deleted"`
}

type RetentionService interface {
	// Sweep deletes audit and shipped-log records older than the retention
	// window. Also invoked manually from the settings surface.
	Sweep(ctx context.Context) (SweepResult, error)

	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type RetentionServiceImpl struct {
	Repo     RetentionRepository
	Logger   *zap.Logger
	days     int
	schedule string

	scheduler *cron.Cron
}

// NewRetentionService validates the schedule up front so a bad expression
// fails the app at startup instead of at the first tick.
func NewRetentionService(repo RetentionRepository, cfg *config.Config, logger *zap.Logger) (RetentionService, error) {
	if cfg.RetentionDays < 1 {
		return nil, fmt.Errorf("retention window must be at least one day, got %d", cfg.RetentionDays)
	}
	if _, err := cron.ParseStandard(cfg.RetentionSchedule); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", cfg.RetentionSchedule, err)
	}

	return &RetentionServiceImpl{
		Repo:     repo,
		Logger:   logger,
		days:     cfg.RetentionDays,
		schedule: cfg.RetentionSchedule,
	}, nil
}

func (s *RetentionServiceImpl) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.days)

	auditDeleted, err := s.Repo.PurgeAuditLogs(ctx, cutoff)
	if err != nil {
		return SweepResult{}, fmt.Errorf("purge audit logs: %w", err)
	}
	appLogDeleted, err := s.Repo.PurgeAppLogs(ctx, cutoff)
	if err != nil {
		return SweepResult{}, fmt.Errorf("purge app logs: %w", err)
	}

	result := SweepResult{
		Cutoff:        cutoff,
		AuditDeleted:  auditDeleted,
		AppLogDeleted: appLogDeleted,
	}
	s.Logger.Info("Retention sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("audit_deleted", auditDeleted),
		zap.Int64("app_log_deleted", appLogDeleted),
	)
	return result, nil
}

func (s *RetentionServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.Logger.Error("Scheduled retention sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}

	s.scheduler.Start()
	s.Logger.Info("Retention scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("retention_days", s.days),
	)
	return nil
}

func (s *RetentionServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		stopCtx := s.scheduler.Stop()
		<-stopCtx.Done()
	}
	return nil
}
