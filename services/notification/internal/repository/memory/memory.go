package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/repository"
)

type inboxRecord struct {
	event     repository.InboxEvent
	status    string
	attempts  int
	lastError string
}

// Repository - inbox в памяти с той же семантикой, что и PostgreSQL
type Repository struct {
	mu     sync.Mutex
	events map[string]*inboxRecord
}

// NewRepository создаёт in-memory inbox
func NewRepository() *Repository {
	return &Repository{events: make(map[string]*inboxRecord)}
}

func (r *Repository) UpsertInboxPending(ctx context.Context, e repository.InboxEvent) (repository.InboxUpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.events[e.EventID]
	if !ok {
		r.events[e.EventID] = &inboxRecord{event: e, status: repository.InboxStatusPending, attempts: 1}
		return repository.InboxUpsertResult{CanProcess: true}, nil
	}

	rec.attempts++
	if rec.status == repository.InboxStatusSent {
		return repository.InboxUpsertResult{AlreadyProcessed: true}, nil
	}
	return repository.InboxUpsertResult{CanProcess: true}, nil
}

func (r *Repository) MarkInboxSent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.events[eventID]
	if !ok {
		return fmt.Errorf("mark inbox sent: event %s not found", eventID)
	}
	rec.status = repository.InboxStatusSent
	rec.lastError = ""
	return nil
}

func (r *Repository) MarkInboxFailed(ctx context.Context, eventID string, errString string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.events[eventID]; ok {
		rec.lastError = errString
	}
	return nil
}

// Status возвращает статус и last_error записи (для тестов)
func (r *Repository) Status(eventID string) (status, lastError string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.events[eventID]
	if !ok {
		return "", "", false
	}
	return rec.status, rec.lastError, true
}
