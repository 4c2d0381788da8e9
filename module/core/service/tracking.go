package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database"
)

// zoneCache is the optional snapshot store for the polling read path. Both
// methods are best effort; the DB stays the source of truth.
type zoneCache interface {
	SetSnapshot(ctx context.Context, snap *domain.ZoneSnapshot) error
	GetSnapshot(ctx context.Context, key domain.TrackingKey) (*domain.ZoneSnapshot, error)
}

// dispatcher delivers a transition after the write has committed.
type dispatcher interface {
	Dispatch(ctx context.Context, event *domain.TransitionEvent)
}

// TrackingService orchestrates the geofence engine: classify the report,
// overwrite the latest record, and notify on a state change.
type TrackingService struct {
	safezones database.SafezoneRepository
	locations database.LocationRepository
	notifier  dispatcher
	cache     zoneCache
	logger    *zap.Logger
	now       func() time.Time
	asyncWait sync.WaitGroup

	// keyLocks serializes the read-modify-write per tracking key. Keys are
	// independent partitions; there is no cross-key ordering.
	mu       sync.Mutex
	keyLocks map[domain.TrackingKey]*sync.Mutex
}

func NewTrackingService(
	safezones database.SafezoneRepository,
	locations database.LocationRepository,
	notifier dispatcher,
	cache zoneCache,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		safezones: safezones,
		locations: locations,
		notifier:  notifier,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		keyLocks:  make(map[domain.TrackingKey]*sync.Mutex),
	}
}

func (s *TrackingService) lockFor(key domain.TrackingKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

// Report processes one position report. Exactly one persisted write per
// call; zero or one outbound notification. A notification failure never
// unwinds the committed location update.
func (s *TrackingService) Report(ctx context.Context, report *domain.LocationReport) (*domain.LocationRecord, NotifyDecision, error) {
	safezone, err := s.safezones.Find(ctx, report.Key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, NotifyDecision{}, domain.ErrZoneNotConfigured
	}
	if err != nil {
		return nil, NotifyDecision{}, fmt.Errorf("resolve safezone: %w", err)
	}

	distance := Haversine(
		safezone.Center.Latitude, safezone.Center.Longitude,
		report.Position.Latitude, report.Position.Longitude,
	)
	if math.Abs(distance-report.ReportedDistance) > 10 {
		s.logger.Debug("device distance disagrees with computed distance",
			zap.Float64("reported", report.ReportedDistance),
			zap.Float64("computed", distance),
			zap.Int64("takecare_id", report.Key.TakecareID))
	}
	state := ClassifyZone(distance, safezone.RadiusTier1, safezone.RadiusTier2)

	receivedAt := report.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}

	rec := &domain.LocationRecord{
		Key:        report.Key,
		Position:   report.Position,
		RecordedAt: receivedAt,
		ZoneState:  state,
		Distance:   distance,
		Battery:    report.Battery,
		NotifiedAt: receivedAt,
	}

	// Critical section: the previous state must be read before the
	// overwrite, and no two reports for the same key may interleave here,
	// or a crossing is double-notified or lost.
	lock := s.lockFor(report.Key)
	lock.Lock()

	var prev *domain.ZoneState
	previous, err := s.locations.FindLatest(ctx, report.Key)
	switch {
	case err == nil:
		p := previous.ZoneState
		prev = &p
	case errors.Is(err, domain.ErrNotFound):
		// first report for this key: baseline, no transition
	default:
		lock.Unlock()
		return nil, NotifyDecision{}, fmt.Errorf("read previous location: %w", err)
	}

	stored, err := s.locations.Upsert(ctx, rec)
	if err != nil {
		lock.Unlock()
		return nil, NotifyDecision{}, fmt.Errorf("store location: %w", err)
	}

	decision := EvaluateTransition(prev, stored.ZoneState)
	lock.Unlock()

	s.refreshSnapshot(ctx, stored)

	if decision.Notify {
		event := NewTransitionEvent(report.Key, prev, stored)
		s.asyncWait.Add(1)
		go func() {
			defer s.asyncWait.Done()
			dispatchCtx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			defer cancel()
			s.notifier.Dispatch(dispatchCtx, event)
		}()
	}

	return stored, decision, nil
}

// CurrentZone serves the polling read path: cache first, DB on a miss.
// Idempotent, no side effects beyond refilling the cache.
func (s *TrackingService) CurrentZone(ctx context.Context, key domain.TrackingKey) (*domain.ZoneSnapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, key)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("zone cache read failed", zap.Error(err))
		}
	}

	rec, err := s.locations.FindLatest(ctx, key)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(rec)
	s.refreshSnapshot(ctx, rec)
	return snap, nil
}

// Safezone exposes the configured geofence for a key.
func (s *TrackingService) Safezone(ctx context.Context, key domain.TrackingKey) (*domain.Safezone, error) {
	sz, err := s.safezones.Find(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrZoneNotConfigured
	}
	return sz, err
}

// TrackedPersons lists every key with a live location record.
func (s *TrackingService) TrackedPersons(ctx context.Context) ([]domain.TrackingKey, error) {
	return s.locations.ListTrackedPersons(ctx)
}

// Wait blocks until in-flight notification dispatches finish. Test hook and
// shutdown aid.
func (s *TrackingService) Wait() {
	s.asyncWait.Wait()
}

func (s *TrackingService) refreshSnapshot(ctx context.Context, rec *domain.LocationRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSnapshot(ctx, snapshotOf(rec)); err != nil {
		s.logger.Warn("zone cache write failed", zap.Error(err))
	}
}

func snapshotOf(rec *domain.LocationRecord) *domain.ZoneSnapshot {
	return &domain.ZoneSnapshot{
		Key:       rec.Key,
		Position:  rec.Position,
		ZoneState: rec.ZoneState,
		Distance:  rec.Distance,
		AsOf:      rec.RecordedAt,
	}
}
