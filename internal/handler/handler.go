package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"vespawatch/internal/domain"
	"vespawatch/internal/middleware"
	"vespawatch/internal/repository"
	"vespawatch/pkg/declination"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/overlap"
	"vespawatch/pkg/proximity"
	"vespawatch/pkg/returnzone"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Broadcaster pushes map changes to live viewers.
type Broadcaster interface {
	Publish(obj proximity.MapObject)
	NestDestroyed(obj proximity.MapObject, reporterID uint)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// BoxQuery is the bounding box of list endpoints.
type BoxQuery struct {
	MinLat *float64 `form:"min_lat" binding:"required"`
	MaxLat *float64 `form:"max_lat" binding:"required"`
	MinLng *float64 `form:"min_lng" binding:"required"`
	MaxLng *float64 `form:"max_lng" binding:"required"`
}

func (q BoxQuery) Box() repository.BoundingBox {
	return repository.BoundingBox{MinLat: *q.MinLat, MaxLat: *q.MaxLat, MinLng: *q.MinLng, MaxLng: *q.MaxLng}
}

func bindBox(c *gin.Context) (repository.BoundingBox, bool) {
	var q BoxQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return repository.BoundingBox{}, false
	}
	box := q.Box()
	if !box.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": repository.ErrInvalidBox.Error()})
		return box, false
	}
	return box, true
}

// canModify reports whether the caller owns a record or is an admin.
func canModify(c *gin.Context, ownerID uint) bool {
	return middleware.GetRole(c) == domain.RoleAdmin || middleware.GetUserID(c) == ownerID
}

func isBadInput(err error) bool {
	for _, target := range []error{
		geodesy.ErrInvalidCoordinate,
		returnzone.ErrInvalidObservation,
		declination.ErrInvalidBearing,
		proximity.ErrNoProjection,
		proximity.ErrInvalidClick,
		proximity.ErrInvalidThreshold,
		overlap.ErrInvalidZoom,
		repository.ErrInvalidBox,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps domain errors to HTTP statuses. Anything unexpected is
// logged under tag and reported as 500 without detail.
func writeError(c *gin.Context, tag string, err error) {
	switch {
	case isBadInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, declination.ErrModelUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
