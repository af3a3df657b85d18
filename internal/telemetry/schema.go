package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS samples (
	       id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	       drive_id           TEXT NOT NULL,
	       sampled_at         INTEGER NOT NULL,
	       heart_rate         REAL NOT NULL,
	       heart_rate_status  TEXT NOT NULL CHECK (heart_rate_status IN ('normal', 'warning', 'critical')),
	       hrv                REAL NOT NULL,
	       hrv_status         TEXT NOT NULL CHECK (hrv_status IN ('normal', 'warning', 'critical')),
	       gsr                REAL NOT NULL,
	       gsr_status         TEXT NOT NULL CHECK (gsr_status IN ('normal', 'warning', 'critical')),
	       temperature        REAL NOT NULL,
	       temperature_status TEXT NOT NULL CHECK (temperature_status IN ('normal', 'warning', 'critical'))
	   );
	   CREATE INDEX IF NOT EXISTS idx_samples_drive ON samples (drive_id, sampled_at);
	   CREATE TABLE IF NOT EXISTS drives (
	       id              TEXT PRIMARY KEY,
	       started_at      INTEGER NOT NULL,
	       ended_at        INTEGER NOT NULL,
	       elapsed_seconds INTEGER NOT NULL CHECK (elapsed_seconds >= 0),
	       samples         INTEGER NOT NULL,
	       alerts          INTEGER NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS alerts (
	       id             TEXT PRIMARY KEY,
	       drive_id       TEXT NOT NULL,
	       kind           TEXT NOT NULL CHECK (kind IN ('drowsiness', 'health')),
	       trigger_source TEXT NOT NULL,
	       raised_at      INTEGER NOT NULL
	   );`

	insertSampleSQL = `
    INSERT INTO samples (
        drive_id, sampled_at,
        heart_rate, heart_rate_status,
        hrv, hrv_status,
        gsr, gsr_status,
        temperature, temperature_status
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertDriveSQL = `
    INSERT INTO drives (id, started_at, ended_at, elapsed_seconds, samples, alerts)
    VALUES (?, ?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET
        ended_at = excluded.ended_at,
        elapsed_seconds = excluded.elapsed_seconds,
        samples = excluded.samples,
        alerts = excluded.alerts`

	insertAlertSQL = `
    INSERT INTO alerts (id, drive_id, kind, trigger_source, raised_at)
    VALUES (?, ?, ?, ?, ?)`

	selectDrivesSQL = `
    SELECT id, started_at, ended_at, elapsed_seconds, samples, alerts
    FROM drives
    ORDER BY started_at DESC
    LIMIT ?`
)

var tables = []string{"samples", "drives", "alerts", "schema_versions"}

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Error string
		}{
			Phase: "create_tables",
			Error: err.Error(),
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Error string
		}{
			Phase: "record_version",
			Error: err.Error(),
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Schema initialized successfully")

	return nil
}

// GetSchemaVersion returns the current schema version, or 0 for an empty database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}

	return exists, nil
}
