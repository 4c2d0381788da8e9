package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/messenger"
)

func statePtr(s domain.ZoneState) *domain.ZoneState { return &s }

func TestEvaluateTransition_FirstReportBaseline(t *testing.T) {
	for _, state := range []domain.ZoneState{domain.ZoneInside, domain.ZoneCaution, domain.ZoneAlert, domain.ZoneBreach} {
		if d := EvaluateTransition(nil, state); d.Notify {
			t.Errorf("first report classifying to %v must not notify", state)
		}
	}
}

func TestEvaluateTransition_SteadyStateSkips(t *testing.T) {
	for _, state := range []domain.ZoneState{domain.ZoneInside, domain.ZoneCaution, domain.ZoneAlert, domain.ZoneBreach} {
		// any number of repeated identical reports always skips
		for i := 0; i < 5; i++ {
			if d := EvaluateTransition(statePtr(state), state); d.Notify {
				t.Errorf("steady state %v notified on repeat %d", state, i)
			}
		}
	}
}

func TestEvaluateTransition_DistinctPairMatrix(t *testing.T) {
	states := []domain.ZoneState{domain.ZoneInside, domain.ZoneCaution, domain.ZoneAlert, domain.ZoneBreach}
	for _, from := range states {
		for _, to := range states {
			d := EvaluateTransition(statePtr(from), to)
			if from == to && d.Notify {
				t.Errorf("%v -> %v should skip", from, to)
			}
			if from != to && !d.Notify {
				t.Errorf("%v -> %v should notify", from, to)
			}
			if d.NewState != to {
				t.Errorf("decision state = %v, want %v", d.NewState, to)
			}
		}
	}
}

type mockContactRepo struct {
	resolveFn func(ctx context.Context, key domain.TrackingKey) (*domain.CaregiverContact, error)
}

func (m *mockContactRepo) Resolve(ctx context.Context, key domain.TrackingKey) (*domain.CaregiverContact, error) {
	return m.resolveFn(ctx, key)
}

type mockMessenger struct {
	pushFn func(ctx context.Context, msg *messenger.PushMessage) error
	calls  []*messenger.PushMessage
}

func (m *mockMessenger) Push(ctx context.Context, msg *messenger.PushMessage) error {
	m.calls = append(m.calls, msg)
	if m.pushFn != nil {
		return m.pushFn(ctx, msg)
	}
	return nil
}

type mockTransitionPub struct {
	publishFn func(ctx context.Context, event *domain.TransitionEvent) error
	calls     []*domain.TransitionEvent
}

func (m *mockTransitionPub) PublishTransition(ctx context.Context, event *domain.TransitionEvent) error {
	m.calls = append(m.calls, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func testContact() *domain.CaregiverContact {
	return &domain.CaregiverContact{
		CaregiverName:  "Somchai J.",
		CaregiverPhone: "0812345678",
		LineRecipient:  "U1234567890",
		DependentName:  "Malee J.",
		DependentPhone: "0898765432",
	}
}

func testEvent(state domain.ZoneState) *domain.TransitionEvent {
	prev := domain.ZoneInside
	return &domain.TransitionEvent{
		ID:            "evt-1",
		Key:           domain.TrackingKey{UserID: 1, TakecareID: 7},
		PreviousState: &prev,
		NewState:      state,
		Position:      domain.Position{Latitude: 13.7563, Longitude: 100.5018},
		Distance:      25,
		OccurredAt:    time.Unix(1715003456, 0),
	}
}

func TestDispatch_PushesAndPublishes(t *testing.T) {
	contacts := &mockContactRepo{resolveFn: func(_ context.Context, _ domain.TrackingKey) (*domain.CaregiverContact, error) {
		return testContact(), nil
	}}
	msgr := &mockMessenger{}
	pub := &mockTransitionPub{}

	svc := NewNotifierService(contacts, msgr, pub, "http://example.test", zap.NewNop())
	svc.Dispatch(context.Background(), testEvent(domain.ZoneCaution))

	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.calls))
	}
	if len(msgr.calls) != 1 {
		t.Fatalf("expected 1 push, got %d", len(msgr.calls))
	}

	msg := msgr.calls[0]
	if msg.Recipient != "U1234567890" {
		t.Errorf("expected recipient U1234567890, got %s", msg.Recipient)
	}
	if !strings.Contains(msg.Body, "Malee J.") {
		t.Errorf("message body should name the dependent: %q", msg.Body)
	}
	for _, a := range msg.Actions {
		if a.Type == "postback" {
			t.Errorf("caution transition must not carry the escalation postback")
		}
	}
}

func TestDispatch_BreachCarriesEscalation(t *testing.T) {
	contacts := &mockContactRepo{resolveFn: func(_ context.Context, _ domain.TrackingKey) (*domain.CaregiverContact, error) {
		return testContact(), nil
	}}
	msgr := &mockMessenger{}
	pub := &mockTransitionPub{}

	svc := NewNotifierService(contacts, msgr, pub, "http://example.test", zap.NewNop())
	svc.Dispatch(context.Background(), testEvent(domain.ZoneBreach))

	if len(msgr.calls) != 1 {
		t.Fatalf("expected 1 push, got %d", len(msgr.calls))
	}

	var postback *messenger.Action
	for i, a := range msgr.calls[0].Actions {
		if a.Type == "postback" {
			postback = &msgr.calls[0].Actions[i]
		}
	}
	if postback == nil {
		t.Fatal("breach transition must carry the escalation postback")
	}
	if !strings.Contains(postback.Data, "type=safezone") {
		t.Errorf("unexpected postback data: %q", postback.Data)
	}
	if !strings.Contains(postback.Data, "takecarepersonId=7") {
		t.Errorf("postback must reference the tracked person: %q", postback.Data)
	}
}

func TestDispatch_ContactResolutionFailure(t *testing.T) {
	contacts := &mockContactRepo{resolveFn: func(_ context.Context, _ domain.TrackingKey) (*domain.CaregiverContact, error) {
		return nil, errors.New("db down")
	}}
	msgr := &mockMessenger{}
	pub := &mockTransitionPub{}

	svc := NewNotifierService(contacts, msgr, pub, "http://example.test", zap.NewNop())
	svc.Dispatch(context.Background(), testEvent(domain.ZoneAlert))

	// event still published, push skipped, no panic
	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.calls))
	}
	if len(msgr.calls) != 0 {
		t.Fatalf("expected no push, got %d", len(msgr.calls))
	}
}

func TestDispatch_NoRecipientSkipsPush(t *testing.T) {
	contact := testContact()
	contact.LineRecipient = ""
	contacts := &mockContactRepo{resolveFn: func(_ context.Context, _ domain.TrackingKey) (*domain.CaregiverContact, error) {
		return contact, nil
	}}
	msgr := &mockMessenger{}
	pub := &mockTransitionPub{}

	svc := NewNotifierService(contacts, msgr, pub, "http://example.test", zap.NewNop())
	svc.Dispatch(context.Background(), testEvent(domain.ZoneAlert))

	if len(msgr.calls) != 0 {
		t.Fatalf("expected no push without a recipient, got %d", len(msgr.calls))
	}
}

func TestDispatch_PushErrorIsSwallowed(t *testing.T) {
	contacts := &mockContactRepo{resolveFn: func(_ context.Context, _ domain.TrackingKey) (*domain.CaregiverContact, error) {
		return testContact(), nil
	}}
	msgr := &mockMessenger{pushFn: func(_ context.Context, _ *messenger.PushMessage) error {
		return errors.New("line api down")
	}}
	pub := &mockTransitionPub{}

	svc := NewNotifierService(contacts, msgr, pub, "http://example.test", zap.NewNop())
	// must not panic or propagate
	svc.Dispatch(context.Background(), testEvent(domain.ZoneBreach))
}

func TestNewTransitionEvent(t *testing.T) {
	prev := domain.ZoneCaution
	rec := &domain.LocationRecord{
		Key:        domain.TrackingKey{UserID: 3, TakecareID: 9},
		Position:   domain.Position{Latitude: 13.75, Longitude: 100.5},
		ZoneState:  domain.ZoneBreach,
		Distance:   42,
		RecordedAt: time.Unix(1715003456, 0),
	}

	event := NewTransitionEvent(rec.Key, &prev, rec)
	if event.ID == "" {
		t.Error("expected a generated event id")
	}
	if event.PreviousState == nil || *event.PreviousState != domain.ZoneCaution {
		t.Error("previous state not carried over")
	}
	if !event.Escalate() {
		t.Error("breach event must escalate")
	}

	// the event must not alias the caller's state variable
	prev = domain.ZoneInside
	if *event.PreviousState != domain.ZoneCaution {
		t.Error("event aliases the caller's previous-state variable")
	}
}
