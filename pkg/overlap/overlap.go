// Package overlap decides what a click on stacked map objects should do.
// Every decision is a pure function of its inputs; nothing is retained
// between queries.
package overlap

import (
	"errors"
	"fmt"
	"math"

	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/proximity"
)

var (
	ErrInvalidZoom   = errors.New("invalid zoom level")
	ErrInvalidConfig = errors.New("invalid overlap config")
)

type Config struct {
	ThresholdPx       float64
	MinZoomToSeparate float64
	ZoomStep          float64
}

func DefaultConfig() Config {
	return Config{
		ThresholdPx:       proximity.DefaultThresholdPx,
		MinZoomToSeparate: 18,
		ZoomStep:          2,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.ThresholdPx >= 0) || math.IsInf(c.ThresholdPx, 0):
		return fmt.Errorf("%w: threshold %v px", ErrInvalidConfig, c.ThresholdPx)
	case !(c.ZoomStep > 0) || math.IsInf(c.ZoomStep, 0):
		return fmt.Errorf("%w: zoom step %v", ErrInvalidConfig, c.ZoomStep)
	case math.IsNaN(c.MinZoomToSeparate) || math.IsInf(c.MinZoomToSeparate, 0):
		return fmt.Errorf("%w: min zoom %v", ErrInvalidConfig, c.MinZoomToSeparate)
	}
	return nil
}

type Resolver struct {
	cfg Config
}

func NewResolver(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg}, nil
}

func (r *Resolver) Config() Config { return r.cfg }

// Resolve picks the Outcome for matches at currentZoom. center is the click
// position in geo coordinates, used as the AutoZoom target.
func (r *Resolver) Resolve(matches []proximity.MapObject, currentZoom float64, center geodesy.Point) (Outcome, error) {
	if math.IsNaN(currentZoom) || math.IsInf(currentZoom, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidZoom, currentZoom)
	}
	switch {
	case len(matches) == 0:
		return NoMatch{}, nil
	case len(matches) == 1:
		return SingleMatch{Object: matches[0]}, nil
	case currentZoom < r.cfg.MinZoomToSeparate:
		return AutoZoom{
			TargetZoom: math.Min(currentZoom+r.cfg.ZoomStep, r.cfg.MinZoomToSeparate),
			Center:     center,
			Matches:    matches,
		}, nil
	default:
		return Ambiguous{Matches: matches}, nil
	}
}

// QueryResult bundles the proximity matches of one click with its Outcome.
type QueryResult struct {
	Matches         []proximity.MapObject
	HasOverlap      bool
	CanAutoSeparate bool
	Outcome         Outcome
}

// Query runs the proximity scan for click and resolves it.
func (r *Resolver) Query(click proximity.Pixel, sets proximity.CandidateSets, proj proximity.Projection, currentZoom float64) (QueryResult, error) {
	matches, err := proximity.FindNearby(click, sets, proj, r.cfg.ThresholdPx)
	if err != nil {
		return QueryResult{}, err
	}
	outcome, err := r.Resolve(matches, currentZoom, proj.ToGeo(click))
	if err != nil {
		return QueryResult{}, err
	}
	stacked := len(matches) > 1
	return QueryResult{
		Matches:         matches,
		HasOverlap:      stacked,
		CanAutoSeparate: stacked && currentZoom < r.cfg.MinZoomToSeparate,
		Outcome:         outcome,
	}, nil
}

// Label is the default disambiguation label for obj.
func Label(obj proximity.MapObject) string {
	if obj.Display.Title != "" {
		return obj.Display.Title
	}
	switch obj.Kind {
	case proximity.KindHornet:
		return fmt.Sprintf("Hornet #%d", obj.ID)
	case proximity.KindApiary:
		return fmt.Sprintf("Apiary #%d", obj.ID)
	case proximity.KindNest:
		return fmt.Sprintf("Nest #%d", obj.ID)
	default:
		return fmt.Sprintf("%s #%d", obj.Kind, obj.ID)
	}
}
