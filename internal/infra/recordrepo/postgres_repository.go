package recordrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// PostgresRepository reads records from a read replica of the backend
// database. It never writes.
//
// Expected tables: symptom_logs, reminders, scans and consultations, each
// keyed by id and user_id with a created_at timestamptz column.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListSymptomLogs implements records.Source.
func (r *PostgresRepository) ListSymptomLogs(ctx context.Context, p records.Principal) ([]records.SymptomLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, itchiness_level, affected_area, possible_triggers, additional_notes, created_at
		FROM symptom_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query symptom logs: %w", err)
	}
	return collect(rows, func(row pgx.CollectableRow) (records.SymptomLog, error) {
		var (
			log      records.SymptomLog
			area     sql.NullString
			triggers sql.NullString
			notes    sql.NullString
		)
		if err := row.Scan(&log.ID, &log.UserID, &log.ItchinessLevel, &area, &triggers, &notes, &log.CreatedAt); err != nil {
			return records.SymptomLog{}, err
		}
		log.AffectedArea = area.String
		log.PossibleTriggers = triggers.String
		log.AdditionalNotes = notes.String
		return log, nil
	})
}

// ListReminders implements records.Source.
func (r *PostgresRepository) ListReminders(ctx context.Context, p records.Principal) ([]records.Reminder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, type, is_active, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	return collect(rows, func(row pgx.CollectableRow) (records.Reminder, error) {
		var (
			reminder records.Reminder
			title    sql.NullString
			kind     string
		)
		if err := row.Scan(&reminder.ID, &reminder.UserID, &title, &kind, &reminder.IsActive, &reminder.CreatedAt); err != nil {
			return records.Reminder{}, err
		}
		reminder.Title = title.String
		reminder.Type = records.ReminderType(kind)
		return reminder, nil
	})
}

// ListScans implements records.Source.
func (r *PostgresRepository) ListScans(ctx context.Context, p records.Principal) ([]records.Scan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, prediction, eczema_detected, severity, confidence, analyzed, created_at
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	return collect(rows, func(row pgx.CollectableRow) (records.Scan, error) {
		var (
			scan       records.Scan
			prediction sql.NullString
			severity   sql.NullString
			confidence sql.NullFloat64
		)
		if err := row.Scan(&scan.ID, &scan.UserID, &prediction, &scan.Eczema, &severity, &confidence, &scan.Analyzed, &scan.CreatedAt); err != nil {
			return records.Scan{}, err
		}
		scan.Prediction = prediction.String
		scan.Severity = severity.String
		scan.Confidence = confidence.Float64
		return scan, nil
	})
}

// ListConsultations implements records.Source.
func (r *PostgresRepository) ListConsultations(ctx context.Context, p records.Principal) ([]records.Consultation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, consultation_type, status, created_at
		FROM consultations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query consultations: %w", err)
	}
	return collect(rows, func(row pgx.CollectableRow) (records.Consultation, error) {
		var (
			c    records.Consultation
			kind sql.NullString
		)
		if err := row.Scan(&c.ID, &c.UserID, &kind, &c.Status, &c.CreatedAt); err != nil {
			return records.Consultation{}, err
		}
		c.Type = kind.String
		return c, nil
	})
}

// Ping checks connectivity, used by the readiness probe.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func collect[T any](rows pgx.Rows, scan pgx.RowToFunc[T]) ([]T, error) {
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}
	return items, nil
}

var _ records.Source = (*PostgresRepository)(nil)
