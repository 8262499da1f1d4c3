package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/repository"
)

// События webhook, которые меняют состояние
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Точки входа reconciler (метка в метриках)
const (
	SourceWebhook = "webhook"
	SourceVerify  = "verify"
)

// MapProviderStatus переводит статус провайдера в статус транзакции
func MapProviderStatus(status string) repository.TransactionStatus {
	switch strings.ToLower(status) {
	case "success":
		return repository.TransactionCompleted
	case "failed", "abandoned", "reversed":
		return repository.TransactionFailed
	default:
		return repository.TransactionPending
	}
}

// ReconcileResult разделяет основную запись (Transaction) и побочные эффекты.
// Warnings описывают то, что не получилось сделать, но не отменяет результат.
// ProviderAmount - сумма из ответа провайдера, она главнее суммы в строке.
type ReconcileResult struct {
	Transaction    repository.Transaction
	ProviderAmount decimal.Decimal
	Persisted      bool
	OrderAdvanced  bool
	Warnings       []string
}

// WebhookOutcome - итог обработки webhook; Ignored для неизвестных событий
type WebhookOutcome struct {
	Event   string
	Ignored bool
	Result  ReconcileResult
}

// HandleWebhook проверяет подпись и применяет событие.
// Ошибка возвращается только для невалидной подписи или тела; сбои записи уходят в Warnings.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (WebhookOutcome, error) {
	event, err := s.webhooks.DecodeWebhook(body, signature)
	if err != nil {
		return WebhookOutcome{}, err
	}

	outcome := WebhookOutcome{Event: event.Kind}

	var status repository.TransactionStatus
	switch event.Kind {
	case EventChargeSuccess:
		status = repository.TransactionCompleted
	case EventChargeFailed:
		status = repository.TransactionFailed
	default:
		observability.L(ctx, s.logger).Info("webhook event ignored", zap.String("event", event.Kind))
		outcome.Ignored = true
		return outcome, nil
	}

	if event.Charge.Reference == "" {
		return WebhookOutcome{}, apperrors.Required("data.reference")
	}

	outcome.Result = s.apply(ctx, SourceWebhook, event.Charge, status)
	return outcome, nil
}

// VerifyPayment спрашивает провайдера о статусе по reference и применяет его
func (s *PaymentService) VerifyPayment(ctx context.Context, reference string) (ReconcileResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ReconcileResult{}, apperrors.Required("reference")
	}

	charge, err := s.provider.VerifyTransaction(ctx, reference)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("verify transaction: %w", err)
	}
	if charge.Reference == "" {
		charge.Reference = reference
	}

	return s.apply(ctx, SourceVerify, charge, MapProviderStatus(charge.Status)), nil
}

// apply - общая часть webhook и verify: upsert по reference (последняя запись выигрывает),
// при completed заказ created -> in_progress и событие в Kafka, только если переход случился
func (s *PaymentService) apply(ctx context.Context, source string, charge Charge, status repository.TransactionStatus) ReconcileResult {
	logger := observability.L(ctx, s.logger).With(
		zap.String("source", source),
		zap.String("reference", charge.Reference),
		zap.String("status", string(status)),
	)
	metrics.RecordReconciliation(source, string(status))

	upd := repository.StatusUpdate{
		Reference: charge.Reference,
		OrderID:   charge.OrderID,
		Amount:    FromMinorUnits(charge.AmountMinor),
		Email:     charge.Email,
		Status:    status,
		Metadata:  charge.Metadata,
	}
	// channel и paid_at известны только после успешной оплаты
	if status == repository.TransactionCompleted {
		if charge.Channel != "" {
			channel := charge.Channel
			upd.Channel = &channel
		}
		upd.PaidAt = charge.PaidAt
	}

	result := ReconcileResult{ProviderAmount: upd.Amount}

	tx, err := s.txRepo.ApplyByReference(ctx, upd)
	if err != nil {
		logger.Error("failed to persist transaction status", zap.Error(err), zap.String("order_id", charge.OrderID))
		result.Warnings = append(result.Warnings, "transaction status not saved")
		tx = s.fallbackTransaction(ctx, upd)
	} else {
		result.Persisted = true
	}
	result.Transaction = tx

	if status != repository.TransactionCompleted {
		logger.Info("transaction status applied")
		return result
	}

	orderID := tx.OrderID
	if orderID == "" {
		orderID = charge.OrderID
	}
	if orderID == "" {
		logger.Warn("completed payment without order_id")
		result.Warnings = append(result.Warnings, "order_id missing, order not advanced")
		return result
	}

	order, advanced, err := s.orderRepo.AdvanceToInProgress(ctx, orderID)
	if err != nil {
		logger.Error("failed to advance order", zap.Error(err), zap.String("order_id", orderID))
		result.Warnings = append(result.Warnings, "order status not updated")
		return result
	}
	result.OrderAdvanced = advanced
	if !advanced {
		logger.Info("order already advanced or missing, nothing to do", zap.String("order_id", orderID))
		return result
	}

	channel := ""
	if tx.Channel != nil {
		channel = *tx.Channel
	}
	err = s.publisher.PublishPaymentCompleted(ctx, PaymentCompletedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Reference:   tx.Reference,
		AmountMinor: charge.AmountMinor,
		Channel:     channel,
		PaidAt:      tx.PaidAt,
	})
	if err != nil {
		logger.Error("failed to publish payment completed event", zap.Error(err), zap.String("order_id", orderID))
		result.Warnings = append(result.Warnings, "payment event not published")
	}

	logger.Info("payment completed, order in progress", zap.String("order_id", orderID))
	return result
}

// fallbackTransaction собирает транзакцию из update, когда upsert не прошёл.
// Если строку удаётся прочитать, из неё берутся id и недостающие order_id / email.
func (s *PaymentService) fallbackTransaction(ctx context.Context, upd repository.StatusUpdate) repository.Transaction {
	tx := transactionFromUpdate(upd)

	stored, err := s.txRepo.GetByReference(ctx, upd.Reference)
	if err != nil {
		return tx
	}
	tx.ID = stored.ID
	tx.AccessCode = stored.AccessCode
	tx.CreatedAt = stored.CreatedAt
	if tx.OrderID == "" {
		tx.OrderID = stored.OrderID
	}
	if tx.Email == "" {
		tx.Email = stored.Email
	}
	return tx
}

func transactionFromUpdate(upd repository.StatusUpdate) repository.Transaction {
	return repository.Transaction{
		OrderID:   upd.OrderID,
		Amount:    upd.Amount,
		Reference: upd.Reference,
		Email:     upd.Email,
		Status:    upd.Status,
		Channel:   upd.Channel,
		Metadata:  upd.Metadata,
		PaidAt:    upd.PaidAt,
	}
}
