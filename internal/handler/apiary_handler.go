package handler

import (
	"net/http"

	"vespawatch/internal/domain"
	"vespawatch/internal/middleware"
	"vespawatch/internal/models"
	"vespawatch/internal/repository"
	"vespawatch/internal/service"

	"github.com/gin-gonic/gin"
)

type ApiaryStore interface {
	Create(a *models.Apiary) error
	GetByID(id uint) (*models.Apiary, error)
	Delete(id uint) error
	ListInBox(box repository.BoundingBox, limit int) ([]models.Apiary, error)
}

type ApiaryHandler struct {
	apiaries ApiaryStore
	hub      Broadcaster
}

func NewApiaryHandler(apiaries ApiaryStore, hub Broadcaster) *ApiaryHandler {
	return &ApiaryHandler{apiaries: apiaries, hub: hub}
}

type CreateApiaryRequest struct {
	Latitude         *float64 `json:"latitude" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	InfestationLevel int      `json:"infestation_level" binding:"omitempty,min=1,max=3"`
	Comments         string   `json:"comments" binding:"max=2000"`
}

func (h *ApiaryHandler) List(c *gin.Context) {
	box, ok := bindBox(c)
	if !ok {
		return
	}
	list, err := h.apiaries.ListInBox(box, domain.MaxMapObjectsPerLayer)
	if err != nil {
		writeError(c, "apiary", err)
		return
	}
	if list == nil {
		list = []models.Apiary{}
	}
	c.JSON(http.StatusOK, gin.H{"apiaries": list})
}

func (h *ApiaryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.apiaries.GetByID(id)
	if err != nil {
		writeError(c, "apiary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"apiary": a})
}

func (h *ApiaryHandler) Create(c *gin.Context) {
	var req CreateApiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := &models.Apiary{
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
		InfestationLevel: req.InfestationLevel,
		Comments:         req.Comments,
		CreatedBy:        middleware.GetUserID(c),
	}
	if a.InfestationLevel == 0 {
		a.InfestationLevel = domain.InfestationLight
	}
	if err := a.Position().Validate(); err != nil {
		writeError(c, "apiary", err)
		return
	}
	if err := h.apiaries.Create(a); err != nil {
		writeError(c, "apiary", err)
		return
	}
	h.hub.Publish(service.ApiaryObject(a))
	c.JSON(http.StatusCreated, gin.H{"apiary": a})
}

func (h *ApiaryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.apiaries.GetByID(id)
	if err != nil {
		writeError(c, "apiary", err)
		return
	}
	if !canModify(c, a.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner or an admin can delete this apiary"})
		return
	}
	if err := h.apiaries.Delete(id); err != nil {
		writeError(c, "apiary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
