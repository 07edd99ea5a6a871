package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tagwerk-app/reminder-service/internal/entity"
)

// uniqueViolation is the postgres error code raised when the unique index
// on (channel, event_key) rejects a second reservation.
const uniqueViolation = "23505"

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Reserve(ctx context.Context, userID, eventKey string, meta map[string]string) (bool, error) {
	metadata, err := marshalMetadata(meta)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO deliveries (id, user_id, channel, event_key, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		uuid.NewString(),
		userID,
		entity.ChannelWhatsApp,
		eventKey,
		entity.DeliveryStatusPending,
		metadata,
		now,
		now,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("failed to reserve delivery: %w", err)
	}

	return true, nil
}

func (r *deliveryRepository) Finalize(ctx context.Context, eventKey string, status entity.DeliveryStatus, metaPatch map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	query := `SELECT metadata FROM deliveries WHERE channel = $1 AND event_key = $2 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, entity.ChannelWhatsApp, eventKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return entity.ErrDeliveryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read delivery metadata: %w", err)
	}

	meta := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("failed to decode delivery metadata: %w", err)
		}
	}
	for k, v := range metaPatch {
		meta[k] = v
	}

	metadata, err := marshalMetadata(meta)
	if err != nil {
		return err
	}

	query = `UPDATE deliveries SET status = $1, metadata = $2, updated_at = $3 WHERE channel = $4 AND event_key = $5`
	result, err := tx.ExecContext(ctx, query, status, metadata, time.Now(), entity.ChannelWhatsApp, eventKey)
	if err != nil {
		return fmt.Errorf("failed to finalize delivery: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrDeliveryNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *deliveryRepository) GetByEventKey(ctx context.Context, eventKey string) (*entity.DeliveryRecord, error) {
	query := `
		SELECT id, user_id, channel, event_key, status, metadata, created_at, updated_at
		FROM deliveries
		WHERE channel = $1 AND event_key = $2
	`

	record, err := scanDelivery(r.db.QueryRowContext(ctx, query, entity.ChannelWhatsApp, eventKey))
	if err == sql.ErrNoRows {
		return nil, entity.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return record, nil
}

func (r *deliveryRepository) GetByUserID(ctx context.Context, userID string) ([]*entity.DeliveryRecord, error) {
	query := `
		SELECT id, user_id, channel, event_key, status, metadata, created_at, updated_at
		FROM deliveries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries by user: %w", err)
	}
	defer rows.Close()

	var records []*entity.DeliveryRecord
	for rows.Next() {
		record, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deliveries: %w", err)
	}

	return records, nil
}

func (r *deliveryRepository) CountByStatus(ctx context.Context, status entity.DeliveryStatus) (int, error) {
	query := `SELECT COUNT(*) FROM deliveries WHERE status = $1`
	var count int
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries by status: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDelivery(row rowScanner) (*entity.DeliveryRecord, error) {
	var record entity.DeliveryRecord
	var raw []byte
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Channel,
		&record.EventKey,
		&record.Status,
		&raw,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Metadata = map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode delivery metadata: %w", err)
		}
	}

	return &record, nil
}

func marshalMetadata(meta map[string]string) ([]byte, error) {
	if meta == nil {
		meta = map[string]string{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode delivery metadata: %w", err)
	}
	return data, nil
}
