package core

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	handler "github.com/frankss230/tew-map-AFE/module/core/internal/handler/http"
	"github.com/frankss230/tew-map-AFE/module/core/internal/handler/subscriber"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/cache"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database/postgres"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/messenger/line"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/publisher/rabbitmq"
	"github.com/frankss230/tew-map-AFE/module/core/service"
)

type Module struct {
	TrackingSvc *service.TrackingService
	NotifierSvc *service.NotifierService
	handler     *handler.TrackingHandler
	subscriber  *subscriber.LocationSubscriber
}

type Options struct {
	LineAccessToken string
	WebDomain       string
}

func Build(
	db *sql.DB,
	amqpConn *amqp.Connection,
	mqttClient mqtt.Client,
	redisClient *redis.Client,
	logger *zap.Logger,
	opts Options,
) (*Module, error) {
	safezoneRepo := postgres.NewSafezoneRepo(db)
	locationRepo := postgres.NewLocationRepo(db)
	contactRepo := postgres.NewContactRepo(db)

	transitionPub, err := rabbitmq.NewTransitionPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("transition publisher: %w", err)
	}

	lineClient := line.NewClient(opts.LineAccessToken)
	zoneCache := cache.NewZoneCache(redisClient)

	notifierSvc := service.NewNotifierService(contactRepo, lineClient, transitionPub, opts.WebDomain, logger)
	trackingSvc := service.NewTrackingService(safezoneRepo, locationRepo, notifierSvc, zoneCache, logger)

	h := handler.NewTrackingHandler(trackingSvc)
	sub := subscriber.NewLocationSubscriber(mqttClient, trackingSvc, logger)

	return &Module{
		TrackingSvc: trackingSvc,
		NotifierSvc: notifierSvc,
		handler:     h,
		subscriber:  sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
