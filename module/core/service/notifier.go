package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/messenger"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/publisher"
)

// NotifyDecision is the outcome of comparing the previous and new zone
// states for one report.
type NotifyDecision struct {
	Notify   bool
	NewState domain.ZoneState
}

// EvaluateTransition decides whether a report warrants a notification.
// A first-ever report (prev == nil) is a baseline, not a transition, and
// never notifies. Repeated identical states always skip, no matter how many
// reports arrive, which is what keeps a device pinging every few seconds
// from flooding the alert channel.
func EvaluateTransition(prev *domain.ZoneState, next domain.ZoneState) NotifyDecision {
	if prev == nil || *prev == next {
		return NotifyDecision{Notify: false, NewState: next}
	}
	return NotifyDecision{Notify: true, NewState: next}
}

var zoneMessages = map[domain.ZoneState]string{
	domain.ZoneInside:  "is back inside the safezone.",
	domain.ZoneCaution: "has moved outside the inner safezone boundary.",
	domain.ZoneAlert:   "is approaching the outer safezone boundary.",
	domain.ZoneBreach:  "has left the safezone. Immediate attention needed.",
}

// NotifierService turns a transition event into a caregiver push message and
// a fanout event. All failures here are delivery failures: logged, never
// surfaced to the reporting device.
type NotifierService struct {
	contacts  database.ContactRepository
	messenger messenger.Messenger
	publisher publisher.TransitionPublisher
	webDomain string
	logger    *zap.Logger
}

func NewNotifierService(
	contacts database.ContactRepository,
	m messenger.Messenger,
	pub publisher.TransitionPublisher,
	webDomain string,
	logger *zap.Logger,
) *NotifierService {
	return &NotifierService{
		contacts:  contacts,
		messenger: m,
		publisher: pub,
		webDomain: webDomain,
		logger:    logger,
	}
}

// Dispatch delivers one transition: publish to the exchange, resolve the
// caregiver, push the chat message. Called after the location write has
// committed and outside the per-key lock.
func (s *NotifierService) Dispatch(ctx context.Context, event *domain.TransitionEvent) {
	if err := s.publisher.PublishTransition(ctx, event); err != nil {
		s.logger.Error("publish transition event",
			zap.String("event_id", event.ID),
			zap.Int64("user_id", event.Key.UserID),
			zap.Int64("takecare_id", event.Key.TakecareID),
			zap.Error(err))
	}

	contact, err := s.contacts.Resolve(ctx, event.Key)
	if err != nil {
		s.logger.Error("resolve caregiver contact",
			zap.Int64("user_id", event.Key.UserID),
			zap.Int64("takecare_id", event.Key.TakecareID),
			zap.Error(err))
		return
	}
	if contact.LineRecipient == "" {
		s.logger.Warn("caregiver has no messaging recipient",
			zap.Int64("user_id", event.Key.UserID),
			zap.Int64("takecare_id", event.Key.TakecareID))
		return
	}

	msg := s.buildMessage(event, contact)
	if err := s.messenger.Push(ctx, msg); err != nil {
		s.logger.Error("push notification",
			zap.String("event_id", event.ID),
			zap.String("zone_state", event.NewState.String()),
			zap.Error(err))
		return
	}

	s.logger.Info("notification sent",
		zap.String("event_id", event.ID),
		zap.String("zone_state", event.NewState.String()),
		zap.Int64("takecare_id", event.Key.TakecareID))
}

func (s *NotifierService) buildMessage(event *domain.TransitionEvent, contact *domain.CaregiverContact) *messenger.PushMessage {
	msg := &messenger.PushMessage{
		Recipient: contact.LineRecipient,
		AltText:   "Safezone alert",
		Title:     "Safezone alert: " + event.NewState.String(),
		Body: fmt.Sprintf("%s %s (%s, distance %.0f m)",
			contact.DependentName, zoneMessages[event.NewState],
			event.OccurredAt.Format("02/01/2006 15:04"), event.Distance),
		Latitude:  event.Position.Latitude,
		Longitude: event.Position.Longitude,
		Actions: []messenger.Action{
			{
				Type:  "uri",
				Label: "View map",
				URI: fmt.Sprintf("%s/location?users_id=%d&takecare_id=%d",
					s.webDomain, event.Key.UserID, event.Key.TakecareID),
			},
		},
	}

	// Breach carries the escalation postback so the caregiver can open a
	// help case straight from the alert.
	if event.Escalate() {
		msg.Actions = append(msg.Actions, messenger.Action{
			Type:  "postback",
			Label: "Request help",
			Data: fmt.Sprintf("userLineId=%s&takecarepersonId=%d&type=safezone",
				contact.LineRecipient, event.Key.TakecareID),
		})
	}
	return msg
}

// NewTransitionEvent builds the event for a notify decision.
func NewTransitionEvent(key domain.TrackingKey, prev *domain.ZoneState, rec *domain.LocationRecord) *domain.TransitionEvent {
	var prevCopy *domain.ZoneState
	if prev != nil {
		p := *prev
		prevCopy = &p
	}
	return &domain.TransitionEvent{
		ID:            uuid.NewString(),
		Key:           key,
		PreviousState: prevCopy,
		NewState:      rec.ZoneState,
		Position:      rec.Position,
		Distance:      rec.Distance,
		OccurredAt:    rec.RecordedAt,
	}
}

// dispatchTimeout bounds outbound delivery so a slow chat API cannot pile up
// goroutines behind a dead endpoint.
const dispatchTimeout = 5 * time.Second
