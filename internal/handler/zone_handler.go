package handler

import (
	"context"
	"errors"
	"net/http"

	"vespawatch/internal/service"
	"vespawatch/pkg/declination"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/returnzone"

	"github.com/gin-gonic/gin"
)

const uncorrectedWarning = "magnetic declination unavailable; bearing is uncorrected"

// ZoneComputer is implemented by service.ZoneService.
type ZoneComputer interface {
	Compute(ctx context.Context, obs returnzone.Observation, magnetic bool) (service.ZoneResult, error)
	Correct(ctx context.Context, pos geodesy.Point, rawBearingDeg float64) (declination.Correction, error)
}

type ZoneHandler struct {
	zones ZoneComputer
}

func NewZoneHandler(zones ZoneComputer) *ZoneHandler {
	return &ZoneHandler{zones: zones}
}

type ZoneRequest struct {
	Latitude         *float64 `json:"latitude" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	Bearing          *float64 `json:"bearing" binding:"required"`
	DurationSeconds  *int     `json:"duration_seconds"`
	Magnetic         bool     `json:"magnetic"`
	AllowUncorrected bool     `json:"allow_uncorrected"`
}

type DeclinationQuery struct {
	Lat              *float64 `form:"lat" binding:"required"`
	Lng              *float64 `form:"lng" binding:"required"`
	Bearing          *float64 `form:"bearing" binding:"required"`
	AllowUncorrected bool     `form:"allow_uncorrected"`
}

// Compute returns the return zone of an ad hoc observation.
func (h *ZoneHandler) Compute(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	obs := returnzone.Observation{
		Position:               geodesy.Point{Lat: *req.Latitude, Lng: *req.Longitude},
		BearingDeg:             *req.Bearing,
		AbsenceDurationSeconds: req.DurationSeconds,
	}
	allow := req.AllowUncorrected || c.Query("allow_uncorrected") == "true"
	writeZone(c, h.zones, obs, req.Magnetic, allow)
}

// Declination corrects one compass bearing.
func (h *ZoneHandler) Declination(c *gin.Context) {
	var q DeclinationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	corr, err := h.zones.Correct(c.Request.Context(), geodesy.Point{Lat: *q.Lat, Lng: *q.Lng}, *q.Bearing)
	if err != nil {
		if q.AllowUncorrected && errors.Is(err, declination.ErrModelUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"raw_bearing_deg": *q.Bearing,
				"corrected":       false,
				"warning":         uncorrectedWarning,
			})
			return
		}
		writeError(c, "declination", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"correction": corr, "corrected": true})
}

// writeZone computes and writes a zone. When magnetic correction fails and
// the caller allowed it, the zone is rebuilt from the raw bearing and flagged.
func writeZone(c *gin.Context, zones ZoneComputer, obs returnzone.Observation, magnetic, allowUncorrected bool) {
	res, err := zones.Compute(c.Request.Context(), obs, magnetic)
	corrected := magnetic
	warning := ""
	if err != nil && magnetic && allowUncorrected && errors.Is(err, declination.ErrModelUnavailable) {
		res, err = zones.Compute(c.Request.Context(), obs, false)
		corrected, warning = false, uncorrectedWarning
	}
	if err != nil {
		writeError(c, "zone", err)
		return
	}
	body := gin.H{
		"zone":      res.Zone,
		"geojson":   res.Zone.GeoJSON(),
		"corrected": corrected,
	}
	if res.Correction != nil {
		body["correction"] = res.Correction
	}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}
