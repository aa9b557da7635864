package handler

import (
	"context"
	"net/http"

	"vespawatch/internal/repository"
	"vespawatch/internal/service"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/overlap"
	"vespawatch/pkg/proximity"

	"github.com/gin-gonic/gin"
)

// ClickResolver is implemented by service.MapService.
type ClickResolver interface {
	ResolveClick(ctx context.Context, click service.Click) (overlap.QueryResult, error)
}

type MapHandler struct {
	svc ClickResolver
}

func NewMapHandler(svc ClickResolver) *MapHandler {
	return &MapHandler{svc: svc}
}

type MapClickRequest struct {
	Click struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"click"`
	Viewport struct {
		CenterLat *float64 `json:"center_lat" binding:"required"`
		CenterLng *float64 `json:"center_lng" binding:"required"`
		Zoom      *float64 `json:"zoom" binding:"required"`
		Width     float64  `json:"width" binding:"gt=0"`
		Height    float64  `json:"height" binding:"gt=0"`
		TileSize  float64  `json:"tile_size" binding:"omitempty,gt=0"`
	} `json:"viewport"`
	Show service.Visibility `json:"show"`
	BBox *struct {
		MinLat float64 `json:"min_lat"`
		MaxLat float64 `json:"max_lat"`
		MinLng float64 `json:"min_lng"`
		MaxLng float64 `json:"max_lng"`
	} `json:"bbox"`
}

// Click resolves a map click to one of no_match, single_match, auto_zoom or
// ambiguous, with the data the client needs to act on it.
func (h *MapHandler) Click(c *gin.Context) {
	var req MapClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	click := service.Click{
		Point: proximity.Pixel{X: req.Click.X, Y: req.Click.Y},
		Viewport: proximity.Viewport{
			Center:   geodesy.Point{Lat: *req.Viewport.CenterLat, Lng: *req.Viewport.CenterLng},
			Zoom:     *req.Viewport.Zoom,
			Width:    req.Viewport.Width,
			Height:   req.Viewport.Height,
			TileSize: req.Viewport.TileSize,
		},
		Show: req.Show,
	}
	if b := req.BBox; b != nil {
		click.Box = &repository.BoundingBox{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLng: b.MinLng, MaxLng: b.MaxLng}
	}
	res, err := h.svc.ResolveClick(c.Request.Context(), click)
	if err != nil {
		writeError(c, "map", err)
		return
	}
	c.JSON(http.StatusOK, clickBody(res))
}

func clickBody(res overlap.QueryResult) gin.H {
	matches := res.Matches
	if matches == nil {
		matches = []proximity.MapObject{}
	}
	body := gin.H{
		"outcome":           res.Outcome.Kind(),
		"matches":           matches,
		"has_overlap":       res.HasOverlap,
		"can_auto_separate": res.CanAutoSeparate,
	}
	switch o := res.Outcome.(type) {
	case overlap.SingleMatch:
		body["object"] = o.Object
	case overlap.AutoZoom:
		body["target_zoom"] = o.TargetZoom
		body["center"] = o.Center
	case overlap.Ambiguous:
		body["choices"] = o.Choices()
	}
	return body
}
