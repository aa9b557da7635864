package handler

import (
	"fmt"
	"net/http"

	"vespawatch/internal/domain"
	"vespawatch/internal/middleware"
	"vespawatch/internal/models"
	"vespawatch/internal/repository"
	"vespawatch/internal/service"
	"vespawatch/pkg/returnzone"

	"github.com/gin-gonic/gin"
)

type HornetStore interface {
	Create(h *models.Hornet) error
	GetByID(id uint) (*models.Hornet, error)
	Delete(id uint) error
	ListInBox(box repository.BoundingBox, limit int) ([]models.Hornet, error)
}

type HornetHandler struct {
	hornets HornetStore
	zones   ZoneComputer
	hub     Broadcaster
}

func NewHornetHandler(hornets HornetStore, zones ZoneComputer, hub Broadcaster) *HornetHandler {
	return &HornetHandler{hornets: hornets, zones: zones, hub: hub}
}

type CreateHornetRequest struct {
	Latitude   *float64 `json:"latitude" binding:"required"`
	Longitude  *float64 `json:"longitude" binding:"required"`
	Direction  *float64 `json:"direction" binding:"required"`
	Duration   *int     `json:"duration"`
	MarkColor1 string   `json:"mark_color_1"`
	MarkColor2 string   `json:"mark_color_2"`
}

func (h *HornetHandler) List(c *gin.Context) {
	box, ok := bindBox(c)
	if !ok {
		return
	}
	list, err := h.hornets.ListInBox(box, domain.MaxMapObjectsPerLayer)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	if list == nil {
		list = []models.Hornet{}
	}
	c.JSON(http.StatusOK, gin.H{"hornets": list})
}

// Get returns the sighting with its return zone.
func (h *HornetHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hornet, err := h.hornets.GetByID(id)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	res, err := h.zones.Compute(c.Request.Context(), hornet.Observation(), false)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hornet": hornet, "zone": res.Zone})
}

func (h *HornetHandler) Create(c *gin.Context) {
	var req CreateHornetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, color := range []string{req.MarkColor1, req.MarkColor2} {
		if color != "" && !domain.IsMarkColor(color) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown mark color %q", color)})
			return
		}
	}
	hornet := &models.Hornet{
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
		Direction:       *req.Direction,
		DurationSeconds: req.Duration,
		MarkColor1:      req.MarkColor1,
		MarkColor2:      req.MarkColor2,
		CreatedBy:       middleware.GetUserID(c),
	}
	raw := returnzone.Observation{Position: hornet.Position(), BearingDeg: *req.Direction, AbsenceDurationSeconds: req.Duration}
	if err := raw.Validate(); err != nil {
		writeError(c, "hornet", err)
		return
	}
	hornet.Direction = models.StoredDirection(hornet.Direction)
	res, err := h.zones.Compute(c.Request.Context(), hornet.Observation(), false)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	if err := h.hornets.Create(hornet); err != nil {
		writeError(c, "hornet", err)
		return
	}
	h.hub.Publish(service.HornetObject(hornet))
	c.JSON(http.StatusCreated, gin.H{"hornet": hornet, "zone": res.Zone})
}

func (h *HornetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hornet, err := h.hornets.GetByID(id)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	if !canModify(c, hornet.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the reporter or an admin can delete this sighting"})
		return
	}
	if err := h.hornets.Delete(id); err != nil {
		writeError(c, "hornet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Zone returns the hornet's return zone. With declination=true the stored
// direction is treated as a magnetic reading and corrected first.
func (h *HornetHandler) Zone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hornet, err := h.hornets.GetByID(id)
	if err != nil {
		writeError(c, "hornet", err)
		return
	}
	writeZone(c, h.zones, hornet.Observation(), c.Query("declination") == "true", c.Query("allow_uncorrected") == "true")
}
