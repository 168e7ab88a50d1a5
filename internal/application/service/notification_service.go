package service

import (
	"context"
	"fmt"

	"github.com/gigmile/ledger-service/internal/domain"
	"go.uber.org/zap"
)

// NotificationService turns ledger events into customer notifications.
// Delivery is a log line for now; the worker owns the transport.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{
		logger: logger,
	}
}

// HandleStatementEvent handles credited and debited events
func (s *NotificationService) HandleStatementEvent(ctx context.Context, event domain.DomainEvent) error {
	statementEvent, ok := event.(*domain.StatementEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := statementEvent.Payload

	s.logger.Info("handling statement event",
		zap.String("event_id", event.GetEventID()),
		zap.String("event_type", event.GetEventType()),
		zap.String("customer_id", payload.CustomerID),
	)

	message := StatementMessage(payload)
	s.logger.Info("statement notification sent",
		zap.String("cpf", payload.CPF),
		zap.String("message", message),
	)

	if payload.Type == domain.OperationTypeDebit && payload.Balance.IsZero() {
		s.logger.Info("zero balance notification sent",
			zap.String("cpf", payload.CPF),
			zap.String("message", "Your account balance is now 0."),
		)
	}

	return nil
}

// HandleAccountEvent handles account lifecycle events
func (s *NotificationService) HandleAccountEvent(ctx context.Context, event domain.DomainEvent) error {
	accountEvent, ok := event.(*domain.AccountEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := accountEvent.Payload

	var message string
	switch event.GetEventType() {
	case domain.EventTypeAccountCreated:
		message = fmt.Sprintf("Welcome, %s! Your account is open.", payload.Name)
	case domain.EventTypeAccountUpdated:
		message = fmt.Sprintf("Your account name is now %s.", payload.Name)
	case domain.EventTypeAccountDeleted:
		message = "Your account has been closed."
	default:
		return fmt.Errorf("unsupported account event: %s", event.GetEventType())
	}

	s.logger.Info("account notification sent",
		zap.String("cpf", payload.CPF),
		zap.String("message", message),
	)

	return nil
}

func StatementMessage(payload domain.StatementPayload) string {
	switch payload.Type {
	case domain.OperationTypeCredit:
		if payload.Description != "" {
			return fmt.Sprintf("Deposit of %s received (%s). Balance: %s",
				payload.Amount.StringFixed(2), payload.Description, payload.Balance.StringFixed(2))
		}
		return fmt.Sprintf("Deposit of %s received. Balance: %s",
			payload.Amount.StringFixed(2), payload.Balance.StringFixed(2))
	default:
		return fmt.Sprintf("Withdrawal of %s made. Balance: %s",
			payload.Amount.StringFixed(2), payload.Balance.StringFixed(2))
	}
}
