package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// PaymentHistoryRepository archives terminal payment records to the local
// sqlite file so history survives registry retention and restarts.
type PaymentHistoryRepository struct {
	db *sql.DB
}

func NewPaymentHistoryRepository(db *sql.DB) *PaymentHistoryRepository {
	return &PaymentHistoryRepository{db: db}
}

func (r *PaymentHistoryRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payment_history (
			payment_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			amount_sat INTEGER NOT NULL,
			destination TEXT NOT NULL,
			comment TEXT,
			error TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			max_retries INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			archived_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_history_status ON payment_history(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *PaymentHistoryRepository) Archive(ctx context.Context, rec *models.PaymentRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_history
			(payment_id, status, amount_sat, destination, comment, error, retry_count, max_retries, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (payment_id) DO UPDATE SET
			status = excluded.status,
			error = excluded.error,
			retry_count = excluded.retry_count,
			archived_at = excluded.archived_at
	`, rec.ID, rec.Status, rec.AmountSat, rec.Destination, rec.Comment, rec.Error,
		rec.RetryCount, rec.MaxRetries, rec.CreatedAt, time.Now())
	return err
}

func (r *PaymentHistoryRepository) GetByID(ctx context.Context, id string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT payment_id, status, amount_sat, destination, comment, error, retry_count, max_retries, created_at
		FROM payment_history WHERE payment_id = ?
	`, id).Scan(&rec.ID, &rec.Status, &rec.AmountSat, &rec.Destination, &rec.Comment,
		&rec.Error, &rec.RetryCount, &rec.MaxRetries, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PaymentHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payment_id, status, amount_sat, destination, comment, error, retry_count, max_retries, created_at
		FROM payment_history ORDER BY archived_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PaymentRecord
	for rows.Next() {
		var rec models.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.Status, &rec.AmountSat, &rec.Destination, &rec.Comment,
			&rec.Error, &rec.RetryCount, &rec.MaxRetries, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
