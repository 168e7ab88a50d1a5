package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeAccountCreated    = "account.created"
	EventTypeAccountUpdated    = "account.updated"
	EventTypeAccountDeleted    = "account.deleted"
	EventTypeStatementCredited = "statement.credited"
	EventTypeStatementDebited  = "statement.debited"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

func newBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now(),
	}
}

// AccountEvent - account registered, renamed or removed
type AccountEvent struct {
	BaseEvent
	Payload AccountPayload `json:"payload"`
}

func (e AccountEvent) GetPayload() interface{} { return e.Payload }

type AccountPayload struct {
	CustomerID string `json:"customer_id"`
	CPF        string `json:"cpf"`
	Name       string `json:"name"`
}

func NewAccountEvent(eventType string, customer *Customer) *AccountEvent {
	return &AccountEvent{
		BaseEvent: newBaseEvent(eventType, customer.ID),
		Payload: AccountPayload{
			CustomerID: customer.ID,
			CPF:        customer.CPF,
			Name:       customer.Name,
		},
	}
}

// StatementEvent - an operation was appended to a statement
type StatementEvent struct {
	BaseEvent
	Payload StatementPayload `json:"payload"`
}

func (e StatementEvent) GetPayload() interface{} { return e.Payload }

type StatementPayload struct {
	CustomerID  string          `json:"customer_id"`
	CPF         string          `json:"cpf"`
	Type        OperationType   `json:"type"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewStatementEvent(customer *Customer, op Operation) *StatementEvent {
	eventType := EventTypeStatementCredited
	if op.Type == OperationTypeDebit {
		eventType = EventTypeStatementDebited
	}

	return &StatementEvent{
		BaseEvent: newBaseEvent(eventType, customer.ID),
		Payload: StatementPayload{
			CustomerID:  customer.ID,
			CPF:         customer.CPF,
			Type:        op.Type,
			Description: op.Description,
			Amount:      op.Amount,
			Balance:     customer.Balance(),
			CreatedAt:   op.CreatedAt,
		},
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
