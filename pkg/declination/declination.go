// Package declination corrects compass bearings for local magnetic declination.
package declination

import (
	"context"
	"errors"
	"fmt"
	"math"

	"vespawatch/pkg/geodesy"
)

var (
	ErrModelUnavailable = errors.New("geomagnetic model unavailable")
	ErrInvalidBearing   = errors.New("invalid compass bearing")
)

// Model looks up the declination in degrees (east positive) at a position.
// Implementations may be local tables or remote services; the caller owns
// timeouts through ctx.
type Model interface {
	DeclinationAt(ctx context.Context, p geodesy.Point) (float64, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, p geodesy.Point) (float64, error)

func (f ModelFunc) DeclinationAt(ctx context.Context, p geodesy.Point) (float64, error) {
	return f(ctx, p)
}

// Correction is the outcome of one lookup. It is position-dependent and is
// never cached.
type Correction struct {
	Position            geodesy.Point `json:"position"`
	RawBearingDeg       float64       `json:"raw_bearing_deg"`
	DeclinationDeg      float64       `json:"declination_deg"`
	CorrectedBearingDeg float64       `json:"corrected_bearing_deg"`
}

type Corrector struct {
	model Model
}

func NewCorrector(model Model) *Corrector {
	return &Corrector{model: model}
}

// CorrectBearing converts a magnetic compass reading at pos to a true-north
// bearing in [0, 360). A failed lookup is returned as an error wrapping
// ErrModelUnavailable; no default declination is ever substituted.
func (c *Corrector) CorrectBearing(ctx context.Context, pos geodesy.Point, rawBearingDeg float64) (Correction, error) {
	if err := pos.Validate(); err != nil {
		return Correction{}, err
	}
	if math.IsNaN(rawBearingDeg) || math.IsInf(rawBearingDeg, 0) {
		return Correction{}, fmt.Errorf("%w: %v", ErrInvalidBearing, rawBearingDeg)
	}
	if c.model == nil {
		return Correction{}, fmt.Errorf("%w: no model configured", ErrModelUnavailable)
	}
	decl, err := c.model.DeclinationAt(ctx, pos)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			return Correction{}, err
		}
		return Correction{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if math.IsNaN(decl) || math.IsInf(decl, 0) || math.Abs(decl) > 180 {
		return Correction{}, fmt.Errorf("%w: model returned declination %v", ErrModelUnavailable, decl)
	}
	return Correction{
		Position:            pos,
		RawBearingDeg:       rawBearingDeg,
		DeclinationDeg:      decl,
		CorrectedBearingDeg: geodesy.Normalize360(rawBearingDeg + decl),
	}, nil
}

// FixedModel returns the same declination everywhere. Suitable for small
// deployments where the declination is known and stable over the area.
type FixedModel float64

func (f FixedModel) DeclinationAt(_ context.Context, _ geodesy.Point) (float64, error) {
	return float64(f), nil
}
