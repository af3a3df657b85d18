package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) telemetry.Config {
	t.Helper()

	return telemetry.Config{
		DBPath:       filepath.Join(t.TempDir(), "data", "telemetry.db"),
		BatchSize:    3,
		BatchTimeout: 0,
		Enabled:      true,
	}
}

func sample(driveID string, at time.Time) *telemetry.Sample {
	return &telemetry.Sample{
		DriveID:  driveID,
		Snapshot: biometric.SampleAll(biometric.NewSource(9), at),
	}
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestDisabledIsNoop(t *testing.T) {
	c, err := telemetry.NewService(telemetry.DefaultConfig(), logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, c.RecordSample(ctx, nil))
	drives, err := c.ListDrives(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, drives)
	assert.NoError(t, c.Close())
}

func TestValidate(t *testing.T) {
	cfg := telemetry.Config{Enabled: true, BatchSize: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidDBPath))

	cfg.DBPath = "/tmp/x.db"
	cfg.BatchSize = 0
	assert.Error(t, cfg.Validate())

	_, err = telemetry.NewService(cfg, logger.Nop())
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidConfig))
}

func TestRecordAndListDrives(t *testing.T) {
	cfg := testConfig(t)
	c, err := telemetry.NewService(cfg, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, c.RecordSample(ctx, sample("drive-1", epoch.Add(time.Duration(i)*3*time.Second))))
	}
	require.NoError(t, c.RecordAlert(ctx, &telemetry.Alert{
		ID: "alert-1", DriveID: "drive-1", Kind: "drowsiness", Trigger: "timed", RaisedAt: epoch.Add(8 * time.Second),
	}))
	require.NoError(t, c.RecordDrive(ctx, &telemetry.Drive{
		ID: "drive-1", StartedAt: epoch, EndedAt: epoch.Add(12 * time.Second), Elapsed: 12 * time.Second, Samples: 4, Alerts: 1,
	}))
	require.NoError(t, c.RecordDrive(ctx, &telemetry.Drive{
		ID: "drive-2", StartedAt: epoch.Add(time.Hour), EndedAt: epoch.Add(time.Hour + time.Minute), Elapsed: time.Minute,
	}))

	drives, err := c.ListDrives(ctx, 10)
	require.NoError(t, err)
	require.Len(t, drives, 2)
	assert.Equal(t, "drive-2", drives[0].ID, "newest first")
	assert.Equal(t, "drive-1", drives[1].ID)
	assert.Equal(t, 12*time.Second, drives[1].Elapsed)
	assert.True(t, epoch.Equal(drives[1].StartedAt))
	assert.Equal(t, 4, drives[1].Samples)

	limited, err := c.ListDrives(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, c.Close())
	assert.Equal(t, 4, countRows(t, cfg.DBPath, "samples"))
	assert.Equal(t, 1, countRows(t, cfg.DBPath, "alerts"))
}

func TestCloseFlushesPartialBatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 100
	cfg.BatchTimeout = time.Hour
	c, err := telemetry.NewService(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, c.RecordSample(context.Background(), sample("drive-1", epoch)))
	require.NoError(t, c.Close())

	assert.Equal(t, 1, countRows(t, cfg.DBPath, "samples"))
}

func TestRejectsInvalidRecords(t *testing.T) {
	c, err := telemetry.NewService(testConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	err = c.RecordSample(ctx, &telemetry.Sample{DriveID: "drive-1"})
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidRecord))

	err = c.RecordSample(ctx, &telemetry.Sample{Snapshot: sample("x", epoch).Snapshot})
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidRecord))

	err = c.RecordDrive(ctx, &telemetry.Drive{})
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidRecord))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = c.RecordSample(cancelled, sample("drive-1", epoch))
	assert.True(t, errors.HasCode(err, telemetry.ErrOperationTimeout))
}

func TestSchemaVersionMismatchRecreates(t *testing.T) {
	cfg := testConfig(t)
	c, err := telemetry.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, c.RecordDrive(context.Background(), &telemetry.Drive{ID: "old", StartedAt: epoch, EndedAt: epoch}))
	require.NoError(t, c.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_versions SET version = 99")
	require.NoError(t, err)
	version, err := telemetry.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 99, version)
	require.NoError(t, db.Close())

	c, err = telemetry.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	drives, err := c.ListDrives(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, drives)
	require.NoError(t, c.Close())

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.DBPath), "backups", "telemetry_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestFailedBatchIsDropped(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 2
	repo, err := telemetry.NewRepository(cfg, logger.Nop())
	require.NoError(t, err)

	// Inactive readings violate the status constraint, so the batch cannot commit.
	require.NoError(t, repo.StoreSample(&telemetry.Sample{DriveID: "drive-1"}))
	err = repo.StoreSample(sample("drive-1", epoch))
	assert.True(t, errors.HasCode(err, telemetry.ErrTransactionFailed))

	require.NoError(t, repo.StoreSample(sample("drive-1", epoch.Add(3*time.Second))))
	require.NoError(t, repo.StoreSample(sample("drive-1", epoch.Add(6*time.Second))))
	require.NoError(t, repo.Close())

	assert.Equal(t, 2, countRows(t, cfg.DBPath, "samples"))
}
