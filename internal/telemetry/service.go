package telemetry

import (
	"context"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/logger"
)

type service struct {
	repo Repository
	cfg  Config
	log  logger.Logger
}

// No-op implementation
type noopCollector struct{}

func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If telemetry is disabled, return a no-op collector
	if !cfg.Enabled {
		log.Debug().Msg("Telemetry disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create telemetry repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Bool("enabled", cfg.Enabled).
		Msg("Telemetry service initialized successfully")

	return &service{
		repo: repo,
		cfg:  cfg,
		log:  log,
	}, nil
}

func (s *service) RecordSample(ctx context.Context, sample *Sample) error {
	errFactory := errors.New()

	if sample == nil || sample.DriveID == "" {
		return errFactory.New(ErrInvalidRecord)
	}
	for _, c := range biometric.Channels {
		if sample.Snapshot.Reading(c).Status == biometric.StatusInactive {
			return errFactory.WithData(ErrInvalidRecord, "inactive "+c.String()+" reading")
		}
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.StoreSample(sample); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) RecordDrive(ctx context.Context, drive *Drive) error {
	errFactory := errors.New()

	if drive == nil || drive.ID == "" || drive.Elapsed < 0 {
		return errFactory.New(ErrInvalidRecord)
	}

	if err := s.repo.StoreDrive(ctx, drive); err != nil {
		return errFactory.Wrap(ErrRecordFailed, err)
	}

	return nil
}

func (s *service) RecordAlert(ctx context.Context, alert *Alert) error {
	errFactory := errors.New()

	if alert == nil || alert.ID == "" {
		return errFactory.New(ErrInvalidRecord)
	}

	if err := s.repo.StoreAlert(ctx, alert); err != nil {
		return errFactory.Wrap(ErrRecordFailed, err)
	}

	return nil
}

func (s *service) ListDrives(ctx context.Context, limit int) ([]Drive, error) {
	if limit <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidArgument, "limit must be positive")
	}

	return s.repo.Drives(ctx, limit)
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}

	return nil
}

// No-op implementation
func (*noopCollector) RecordSample(_ context.Context, _ *Sample) error {
	return nil
}

func (*noopCollector) RecordDrive(_ context.Context, _ *Drive) error {
	return nil
}

func (*noopCollector) RecordAlert(_ context.Context, _ *Alert) error {
	return nil
}

func (*noopCollector) ListDrives(_ context.Context, _ int) ([]Drive, error) {
	return nil, nil
}

func (*noopCollector) Close() error {
	return nil
}
