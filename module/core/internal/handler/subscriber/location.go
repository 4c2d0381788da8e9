package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/service"
)

const topicPattern = "care/device/+/location"

type trackingService interface {
	Report(ctx context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error)
}

// reportMessage mirrors the HTTP report body. Pointer fields keep the
// zero-is-present rule on this intake path too.
type reportMessage struct {
	UserID     *int64   `json:"user_id"`
	TakecareID *int64   `json:"takecare_id"`
	Distance   *float64 `json:"distance"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Battery    *float64 `json:"battery"`
}

type LocationSubscriber struct {
	client mqtt.Client
	svc    trackingService
	logger *zap.Logger
}

func NewLocationSubscriber(client mqtt.Client, svc trackingService, logger *zap.Logger) *LocationSubscriber {
	return &LocationSubscriber{client: client, svc: svc, logger: logger}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw reportMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid location message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	if err := validateReportMessage(&raw); err != nil {
		s.logger.Warn("report validation failed", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	report := &domain.LocationReport{
		Key:              domain.TrackingKey{UserID: *raw.UserID, TakecareID: *raw.TakecareID},
		Position:         domain.Position{Latitude: *raw.Latitude, Longitude: *raw.Longitude},
		ReportedDistance: *raw.Distance,
		Battery:          *raw.Battery,
	}

	rec, decision, err := s.svc.Report(context.Background(), report)
	if err != nil {
		s.logger.Error("process device report",
			zap.Int64("takecare_id", report.Key.TakecareID),
			zap.Error(err))
		return
	}

	s.logger.Info("device report processed",
		zap.Int64("takecare_id", rec.Key.TakecareID),
		zap.String("zone_state", rec.ZoneState.String()),
		zap.Bool("notified", decision.Notify))
}

func validateReportMessage(msg *reportMessage) error {
	if msg.UserID == nil {
		return fmt.Errorf("user_id: %w", domain.ErrInvalidReport)
	}
	if msg.TakecareID == nil {
		return fmt.Errorf("takecare_id: %w", domain.ErrInvalidReport)
	}
	if msg.Distance == nil {
		return fmt.Errorf("distance: %w", domain.ErrInvalidReport)
	}
	if msg.Latitude == nil {
		return fmt.Errorf("latitude: %w", domain.ErrInvalidReport)
	}
	if msg.Longitude == nil {
		return fmt.Errorf("longitude: %w", domain.ErrInvalidReport)
	}
	if msg.Battery == nil {
		return fmt.Errorf("battery: %w", domain.ErrInvalidReport)
	}
	if *msg.Latitude < -90 || *msg.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %w", domain.ErrInvalidReport)
	}
	if *msg.Longitude < -180 || *msg.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %w", domain.ErrInvalidReport)
	}
	return nil
}
