package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"vespawatch/internal/domain"
	"vespawatch/internal/middleware"
	"vespawatch/internal/models"
	"vespawatch/internal/repository"
	"vespawatch/internal/service"
	"vespawatch/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

// MaxPhotoBytes bounds nest photo uploads.
const MaxPhotoBytes = 10 << 20

type NestStore interface {
	Create(n *models.Nest) error
	GetByID(id uint) (*models.Nest, error)
	Delete(id uint) error
	ListInBox(box repository.BoundingBox, limit int) ([]models.Nest, error)
	MarkDestroyed(id, userID uint, at time.Time) error
	UpdatePhoto(id uint, url, publicID string) error
}

type NestHandler struct {
	nests  NestStore
	hub    Broadcaster
	cloud  cloudinary.Client // nil when uploads are not configured
	folder string
	now    func() time.Time
}

func NewNestHandler(nests NestStore, hub Broadcaster, cloud cloudinary.Client, folder string) *NestHandler {
	return &NestHandler{nests: nests, hub: hub, cloud: cloud, folder: folder, now: time.Now}
}

type CreateNestRequest struct {
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	PublicPlace bool     `json:"public_place"`
	Comments    string   `json:"comments" binding:"max=2000"`
}

func (h *NestHandler) List(c *gin.Context) {
	box, ok := bindBox(c)
	if !ok {
		return
	}
	list, err := h.nests.ListInBox(box, domain.MaxMapObjectsPerLayer)
	if err != nil {
		writeError(c, "nest", err)
		return
	}
	if list == nil {
		list = []models.Nest{}
	}
	c.JSON(http.StatusOK, gin.H{"nests": list})
}

func (h *NestHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.nests.GetByID(id)
	if err != nil {
		writeError(c, "nest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nest": n})
}

func (h *NestHandler) Create(c *gin.Context) {
	var req CreateNestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n := &models.Nest{
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		PublicPlace: req.PublicPlace,
		Comments:    req.Comments,
		CreatedBy:   middleware.GetUserID(c),
	}
	if err := n.Position().Validate(); err != nil {
		writeError(c, "nest", err)
		return
	}
	if err := h.nests.Create(n); err != nil {
		writeError(c, "nest", err)
		return
	}
	h.hub.Publish(service.NestObject(n))
	c.JSON(http.StatusCreated, gin.H{"nest": n})
}

func (h *NestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.nests.GetByID(id)
	if err != nil {
		writeError(c, "nest", err)
		return
	}
	if !canModify(c, n.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the reporter or an admin can delete this nest"})
		return
	}
	if err := h.nests.Delete(id); err != nil {
		writeError(c, "nest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Destroy records that a nest was removed. Route is limited to ADMIN and BEEKEEPER.
func (h *NestHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.nests.GetByID(id)
	if err != nil {
		writeError(c, "nest", err)
		return
	}
	if n.Destroyed {
		c.JSON(http.StatusConflict, gin.H{"error": "nest already destroyed"})
		return
	}
	userID := middleware.GetUserID(c)
	at := h.now().UTC()
	if err := h.nests.MarkDestroyed(id, userID, at); err != nil {
		writeError(c, "nest", err)
		return
	}
	n.Destroyed, n.DestroyedAt, n.DestroyedBy = true, &at, &userID
	log.Printf("[nest] nest %d destroyed by user %d", id, userID)
	h.hub.NestDestroyed(service.NestObject(n), n.CreatedBy)
	c.JSON(http.StatusOK, gin.H{"nest": n})
}

// Photo attaches a multipart "file" image to the nest. Only the reporter or
// an admin may replace it.
func (h *NestHandler) Photo(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo upload not configured"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.nests.GetByID(id)
	if err != nil {
		writeError(c, "nest", err)
		return
	}
	if !canModify(c, n.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the reporter or an admin can change this photo"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > MaxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	up, err := h.cloud.UploadImage(c.Request.Context(), f, h.folder+"/nests", cloudinary.NewPublicID("nest"))
	if err != nil {
		log.Printf("[nest] photo upload failed for nest %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	if err := h.nests.UpdatePhoto(id, up.URL, up.PublicID); err != nil {
		writeError(c, "nest", err)
		return
	}
	if n.PhotoID != "" {
		if err := h.cloud.Destroy(c.Request.Context(), n.PhotoID); err != nil {
			log.Printf("[nest] could not remove old photo %s: %v", n.PhotoID, err)
		}
	}
	n.PhotoURL, n.PhotoID = up.URL, up.PublicID
	h.hub.Publish(service.NestObject(n))
	c.JSON(http.StatusOK, gin.H{"nest": n, "photo": up})
}
