package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/repository"
)

// Repository реализует NotificationRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertInboxPending вставляет событие или увеличивает attempts у существующего.
// Статус возвращается из RETURNING, поэтому хватает одного запроса.
func (r *Repository) UpsertInboxPending(ctx context.Context, e repository.InboxEvent) (repository.InboxUpsertResult, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notification_inbox_events (event_id, event_type, occurred_at, order_id, topic, partition, message_offset, attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		 ON CONFLICT (event_id) DO UPDATE
		 SET attempts = notification_inbox_events.attempts + 1,
		     updated_at = NOW()
		 RETURNING status`,
		e.EventID, e.EventType, e.OccurredAt, e.OrderID, e.Topic, e.Partition, e.Offset,
	).Scan(&status)
	if err != nil {
		return repository.InboxUpsertResult{}, fmt.Errorf("upsert inbox event: %w", err)
	}

	if status == repository.InboxStatusSent {
		return repository.InboxUpsertResult{AlreadyProcessed: true}, nil
	}
	return repository.InboxUpsertResult{CanProcess: true}, nil
}

// MarkInboxSent переводит запись в статус sent
func (r *Repository) MarkInboxSent(ctx context.Context, eventID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notification_inbox_events SET status = 'sent', last_error = NULL, updated_at = NOW() WHERE event_id = $1`,
		eventID)
	if err != nil {
		return fmt.Errorf("mark inbox sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark inbox sent: event %s not found", eventID)
	}
	return nil
}

// MarkInboxFailed сохраняет текст ошибки, статус не меняется
func (r *Repository) MarkInboxFailed(ctx context.Context, eventID string, errString string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notification_inbox_events SET last_error = $2, updated_at = NOW() WHERE event_id = $1`,
		eventID, errString)
	if err != nil {
		return fmt.Errorf("mark inbox failed: %w", err)
	}
	return nil
}
