package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/publisher"
)

var _ publisher.TransitionPublisher = (*TransitionPublisher)(nil)

const (
	exchangeName = "care.events"
	queueName    = "zone_transitions"
)

type TransitionPublisher struct {
	ch *amqp.Channel
}

func NewTransitionPublisher(conn *amqp.Connection) (*TransitionPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &TransitionPublisher{ch: ch}, nil
}

type transitionMessage struct {
	EventID       string  `json:"event_id"`
	UserID        int64   `json:"user_id"`
	TakecareID    int64   `json:"takecare_id"`
	PreviousState *int    `json:"previous_state,omitempty"`
	NewState      int     `json:"new_state"`
	NewStateName  string  `json:"new_state_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Distance      float64 `json:"distance"`
	Escalate      bool    `json:"escalate"`
	OccurredAt    int64   `json:"occurred_at"`
}

func (p *TransitionPublisher) PublishTransition(ctx context.Context, event *domain.TransitionEvent) error {
	msg := transitionMessage{
		EventID:      event.ID,
		UserID:       event.Key.UserID,
		TakecareID:   event.Key.TakecareID,
		NewState:     int(event.NewState),
		NewStateName: event.NewState.String(),
		Latitude:     event.Position.Latitude,
		Longitude:    event.Position.Longitude,
		Distance:     event.Distance,
		Escalate:     event.Escalate(),
		OccurredAt:   event.OccurredAt.Unix(),
	}
	if event.PreviousState != nil {
		prev := int(*event.PreviousState)
		msg.PreviousState = &prev
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal transition: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
