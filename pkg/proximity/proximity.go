// Package proximity finds the map objects drawn under a click.
//
// The scan is brute force, O(n) per query. Visible object counts are bounded
// by the viewport (hundreds, not millions), so no spatial tree is kept.
package proximity

import (
	"errors"
	"fmt"
	"math"

	"vespawatch/pkg/geodesy"
)

var (
	ErrNoProjection     = errors.New("projection unavailable")
	ErrInvalidThreshold = errors.New("invalid pixel threshold")
	ErrInvalidClick     = errors.New("invalid click point")
)

// DefaultThresholdPx is the reference click radius.
const DefaultThresholdPx = 50.0

// Kind tags a MapObject with its owning collection.
type Kind string

const (
	KindHornet Kind = "hornet"
	KindApiary Kind = "apiary"
	KindNest   Kind = "nest"
)

// Kinds lists every Kind in scan order.
var Kinds = []Kind{KindHornet, KindApiary, KindNest}

func (k Kind) Valid() bool {
	switch k {
	case KindHornet, KindApiary, KindNest:
		return true
	}
	return false
}

// DisplayMeta is presentational and opaque to the query.
type DisplayMeta struct {
	Symbol   string   `json:"symbol,omitempty"`
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Colors   []string `json:"colors,omitempty"`
}

// MapObject is a transient view of a hornet, apiary or nest record.
type MapObject struct {
	Kind     Kind          `json:"kind"`
	ID       uint          `json:"id"`
	Position geodesy.Point `json:"position"`
	Display  DisplayMeta   `json:"display"`
}

// Pixel is a point in map container coordinates, origin top-left.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pixel) DistanceTo(q Pixel) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Projection is the map widget's coordinate transform.
type Projection interface {
	ToPixel(p geodesy.Point) Pixel
	ToGeo(px Pixel) geodesy.Point
}

// Layer is one kind's candidate objects and whether the layer is shown.
type Layer struct {
	Visible bool
	Objects []MapObject
}

// CandidateSets groups the per-kind layers currently on the map.
type CandidateSets struct {
	Hornets  Layer
	Apiaries Layer
	Nests    Layer
}

// Layers returns the layers in scan order: hornets, apiaries, nests.
func (s CandidateSets) Layers() []Layer {
	return []Layer{s.Hornets, s.Apiaries, s.Nests}
}

// FindNearby returns every object of a visible layer whose projected position
// lies within thresholdPx of click. Order is hornets, apiaries, nests, and
// input order within a layer.
func FindNearby(click Pixel, sets CandidateSets, proj Projection, thresholdPx float64) ([]MapObject, error) {
	if proj == nil {
		return nil, ErrNoProjection
	}
	if math.IsNaN(thresholdPx) || math.IsInf(thresholdPx, 0) || thresholdPx < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, thresholdPx)
	}
	if math.IsNaN(click.X) || math.IsNaN(click.Y) || math.IsInf(click.X, 0) || math.IsInf(click.Y, 0) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidClick, click)
	}
	matches := make([]MapObject, 0, 4)
	for _, layer := range sets.Layers() {
		if !layer.Visible {
			continue
		}
		for _, obj := range layer.Objects {
			if click.DistanceTo(proj.ToPixel(obj.Position)) <= thresholdPx {
				matches = append(matches, obj)
			}
		}
	}
	return matches, nil
}
