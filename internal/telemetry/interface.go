package telemetry

import (
	"context"
	"time"

	"codeberg.org/mutker/drivemon/internal/biometric"
)

// Collector receives everything a monitoring session produces
type Collector interface {
	RecordSample(ctx context.Context, sample *Sample) error
	RecordDrive(ctx context.Context, drive *Drive) error
	RecordAlert(ctx context.Context, alert *Alert) error
	ListDrives(ctx context.Context, limit int) ([]Drive, error)
	Close() error
}

// Repository defines the interface for telemetry data storage
type Repository interface {
	StoreSample(sample *Sample) error
	StoreDrive(ctx context.Context, drive *Drive) error
	StoreAlert(ctx context.Context, alert *Alert) error
	Drives(ctx context.Context, limit int) ([]Drive, error)
	Close() error
}

// Sample is one biometric snapshot taken during a drive
type Sample struct {
	DriveID  string
	Snapshot biometric.Snapshot
}

// Drive is a completed drive session
type Drive struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
	Samples   int
	Alerts    int
}

// Alert is an alert raised during a drive
type Alert struct {
	ID       string
	DriveID  string
	Kind     string
	Trigger  string
	RaisedAt time.Time
}
