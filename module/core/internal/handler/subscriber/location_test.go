package subscriber

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/service"
)

type mockTrackingSvc struct {
	reportFn func(ctx context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error)
}

func (m *mockTrackingSvc) Report(ctx context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
	return m.reportFn(ctx, report)
}

type fakeMQTTMessage struct {
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 1 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return "care/device/7/location" }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func newSubscriber(svc trackingService) *LocationSubscriber {
	return &LocationSubscriber{svc: svc, logger: zap.NewNop()}
}

func TestHandleMessage_Success(t *testing.T) {
	var gotReport *domain.LocationReport
	svc := &mockTrackingSvc{
		reportFn: func(_ context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
			gotReport = report
			return &domain.LocationRecord{Key: report.Key, ZoneState: domain.ZoneInside}, service.NotifyDecision{}, nil
		},
	}
	sub := newSubscriber(svc)

	payload, _ := json.Marshal(map[string]any{
		"user_id": 1, "takecare_id": 7, "distance": 15.0,
		"latitude": 13.7563, "longitude": 100.5018, "battery": 88.0,
	})
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})

	if gotReport == nil {
		t.Fatal("expected Report to be called")
	}
	if gotReport.Key.UserID != 1 || gotReport.Key.TakecareID != 7 {
		t.Errorf("unexpected key: %+v", gotReport.Key)
	}
	if gotReport.Position.Latitude != 13.7563 {
		t.Errorf("unexpected position: %+v", gotReport.Position)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	svc := &mockTrackingSvc{
		reportFn: func(_ context.Context, _ *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
			t.Fatal("Report must not be called")
			return nil, service.NotifyDecision{}, nil
		},
	}
	sub := newSubscriber(svc)
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte("not json")})
}

func TestHandleMessage_MissingFieldDropped(t *testing.T) {
	svc := &mockTrackingSvc{
		reportFn: func(_ context.Context, _ *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
			t.Fatal("Report must not be called for an incomplete message")
			return nil, service.NotifyDecision{}, nil
		},
	}
	sub := newSubscriber(svc)

	// battery absent
	payload, _ := json.Marshal(map[string]any{
		"user_id": 1, "takecare_id": 7, "distance": 15.0,
		"latitude": 13.7563, "longitude": 100.5018,
	})
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})
}

func TestHandleMessage_ZeroValuesPassValidation(t *testing.T) {
	called := false
	svc := &mockTrackingSvc{
		reportFn: func(_ context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
			called = true
			if report.Battery != 0 || report.ReportedDistance != 0 {
				t.Errorf("zero values mangled: %+v", report)
			}
			return &domain.LocationRecord{Key: report.Key}, service.NotifyDecision{}, nil
		},
	}
	sub := newSubscriber(svc)

	payload, _ := json.Marshal(map[string]any{
		"user_id": 1, "takecare_id": 7, "distance": 0.0,
		"latitude": 0.0, "longitude": 0.0, "battery": 0.0,
	})
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})

	if !called {
		t.Fatal("zero-valued fields must pass presence validation")
	}
}

func TestHandleMessage_OutOfRangeCoordinates(t *testing.T) {
	svc := &mockTrackingSvc{
		reportFn: func(_ context.Context, _ *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error) {
			t.Fatal("Report must not be called for out-of-range coordinates")
			return nil, service.NotifyDecision{}, nil
		},
	}
	sub := newSubscriber(svc)

	payload, _ := json.Marshal(map[string]any{
		"user_id": 1, "takecare_id": 7, "distance": 15.0,
		"latitude": 91.0, "longitude": 100.5018, "battery": 88.0,
	})
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})
}
