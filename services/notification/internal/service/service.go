package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/repository"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/telegram"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/notification/internal/templates"
)

// NotificationService содержит бизнес-логику обработки уведомлений
type NotificationService struct {
	logger   *zap.Logger
	repo     repository.NotificationRepository
	sender   telegram.Sender
	renderer *templates.Renderer
	chatID   string
}

// NewNotificationService создаёт новый экземпляр NotificationService
func NewNotificationService(
	logger *zap.Logger,
	repo repository.NotificationRepository,
	sender telegram.Sender,
	renderer *templates.Renderer,
	chatID string,
) *NotificationService {
	return &NotificationService{
		logger:   logger,
		repo:     repo,
		sender:   sender,
		renderer: renderer,
		chatID:   chatID,
	}
}

// HandlePaymentCompleted уведомляет администратора об оплате заказа.
// Inbox: sent -> дубликат, пропускаем; pending -> рендерим и отправляем.
// При ошибке отправки запись остаётся pending с last_error, ошибка уходит consumer-у на retry.
func (s *NotificationService) HandlePaymentCompleted(ctx context.Context, event PaymentCompletedEvent, topic string, partition int, offset int64) error {
	logger := observability.L(ctx, s.logger).With(
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID),
	)
	logger.Info("handling payment completed event",
		zap.String("reference", event.Reference),
		zap.Int64("amount", event.Amount),
	)

	res, err := s.repo.UpsertInboxPending(ctx, repository.InboxEvent{
		EventID:    event.EventID,
		EventType:  event.EventType,
		OccurredAt: event.OccurredAt,
		OrderID:    event.OrderID,
		Topic:      topic,
		Partition:  partition,
		Offset:     offset,
	})
	if err != nil {
		logger.Error("failed to upsert inbox event", zap.Error(err))
		return fmt.Errorf("upsert inbox: %w", err)
	}

	if res.AlreadyProcessed {
		logger.Info("event already processed (duplicate)")
		metrics.RecordNotification("duplicate")
		return nil
	}

	text, err := s.renderer.RenderPaymentCompleted(event)
	if err != nil {
		logger.Error("failed to render payment template", zap.Error(err))
		return s.fail(ctx, logger, event.EventID, err)
	}

	if err := s.sender.Send(ctx, s.chatID, text); err != nil {
		logger.Error("failed to send telegram notification", zap.Error(err))
		return s.fail(ctx, logger, event.EventID, err)
	}

	if err := s.repo.MarkInboxSent(ctx, event.EventID); err != nil {
		// сообщение ушло, но повтор отправит его ещё раз
		logger.Error("failed to mark inbox event as sent", zap.Error(err))
		return fmt.Errorf("mark inbox sent: %w", err)
	}

	metrics.RecordNotification("sent")
	logger.Info("notification sent for payment completed")
	return nil
}

func (s *NotificationService) fail(ctx context.Context, logger *zap.Logger, eventID string, cause error) error {
	metrics.RecordNotification("failed")
	if err := s.repo.MarkInboxFailed(ctx, eventID, cause.Error()); err != nil {
		logger.Warn("failed to save inbox last_error", zap.Error(err))
	}
	return cause
}
