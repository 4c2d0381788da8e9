package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/service"
)

type trackingService interface {
	Report(ctx context.Context, report *domain.LocationReport) (*domain.LocationRecord, service.NotifyDecision, error)
	CurrentZone(ctx context.Context, key domain.TrackingKey) (*domain.ZoneSnapshot, error)
	Safezone(ctx context.Context, key domain.TrackingKey) (*domain.Safezone, error)
	TrackedPersons(ctx context.Context) ([]domain.TrackingKey, error)
}

// reportRequest uses pointer fields so that a present zero survives binding
// while a missing field fails it. distance=0 and battery=0 are legitimate
// readings; truthiness checks here were a real bug in the past.
type reportRequest struct {
	UserID     *int64   `json:"user_id" binding:"required"`
	TakecareID *int64   `json:"takecare_id" binding:"required"`
	Distance   *float64 `json:"distance" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"required"`
	Longitude  *float64 `json:"longitude" binding:"required"`
	Battery    *float64 `json:"battery" binding:"required"`
}

type recordResponse struct {
	LocationID int64   `json:"location_id"`
	UserID     int64   `json:"user_id"`
	TakecareID int64   `json:"takecare_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RecordedAt int64   `json:"recorded_at"`
	ZoneState  int     `json:"zone_state"`
	ZoneName   string  `json:"zone_name"`
	Distance   float64 `json:"distance"`
	Battery    float64 `json:"battery"`
	Notified   bool    `json:"notified"`
}

type TrackingHandler struct {
	svc trackingService
}

func NewTrackingHandler(svc trackingService) *TrackingHandler {
	return &TrackingHandler{svc: svc}
}

func (h *TrackingHandler) Register(r *gin.RouterGroup) {
	r.POST("/tracking/locations", h.ReportLocation)
	r.GET("/tracking/keys", h.ListKeys)
	r.GET("/tracking/:user_id/:takecare_id/zone", h.GetCurrentZone)
	r.GET("/tracking/:user_id/:takecare_id/safezone", h.GetSafezone)
}

func (h *TrackingHandler) ReportLocation(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "error", "data": "missing required fields"})
		return
	}

	report := &domain.LocationReport{
		Key:              domain.TrackingKey{UserID: *req.UserID, TakecareID: *req.TakecareID},
		Position:         domain.Position{Latitude: *req.Latitude, Longitude: *req.Longitude},
		ReportedDistance: *req.Distance,
		Battery:          *req.Battery,
	}

	rec, decision, err := h.svc.Report(c.Request.Context(), report)
	switch {
	case errors.Is(err, domain.ErrZoneNotConfigured):
		c.JSON(http.StatusNotFound, gin.H{"message": "error", "data": "safezone not configured"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error", "data": "failed to process report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": toRecordResponse(rec, decision.Notify)})
}

func (h *TrackingHandler) GetCurrentZone(c *gin.Context) {
	key, ok := keyFromParams(c)
	if !ok {
		return
	}

	snap, err := h.svc.CurrentZone(c.Request.Context(), key)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "error", "data": "no location reported yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error", "data": "failed to fetch zone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": gin.H{
		"latitude":   snap.Position.Latitude,
		"longitude":  snap.Position.Longitude,
		"zone_state": int(snap.ZoneState),
		"zone_name":  snap.ZoneState.String(),
		"distance":   snap.Distance,
		"as_of":      snap.AsOf.Unix(),
	}})
}

func (h *TrackingHandler) GetSafezone(c *gin.Context) {
	key, ok := keyFromParams(c)
	if !ok {
		return
	}

	sz, err := h.svc.Safezone(c.Request.Context(), key)
	if errors.Is(err, domain.ErrZoneNotConfigured) {
		c.JSON(http.StatusNotFound, gin.H{"message": "error", "data": "safezone not configured"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error", "data": "failed to fetch safezone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": sz})
}

func (h *TrackingHandler) ListKeys(c *gin.Context) {
	keys, err := h.svc.TrackedPersons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error", "data": "failed to list tracked persons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": keys})
}

func keyFromParams(c *gin.Context) (domain.TrackingKey, bool) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "error", "data": "invalid user_id"})
		return domain.TrackingKey{}, false
	}
	takecareID, err := strconv.ParseInt(c.Param("takecare_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "error", "data": "invalid takecare_id"})
		return domain.TrackingKey{}, false
	}
	return domain.TrackingKey{UserID: userID, TakecareID: takecareID}, true
}

func toRecordResponse(rec *domain.LocationRecord, notified bool) recordResponse {
	return recordResponse{
		LocationID: rec.ID,
		UserID:     rec.Key.UserID,
		TakecareID: rec.Key.TakecareID,
		Latitude:   rec.Position.Latitude,
		Longitude:  rec.Position.Longitude,
		RecordedAt: rec.RecordedAt.Unix(),
		ZoneState:  int(rec.ZoneState),
		ZoneName:   rec.ZoneState.String(),
		Distance:   rec.Distance,
		Battery:    rec.Battery,
		Notified:   notified,
	}
}
