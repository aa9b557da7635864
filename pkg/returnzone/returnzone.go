// Package returnzone derives the cone-shaped area in which a hornet's nest
// probably lies, from a single directional observation.
package returnzone

import (
	"errors"
	"fmt"
	"math"

	"vespawatch/pkg/geodesy"
)

var (
	ErrInvalidObservation = errors.New("invalid observation")
	ErrInvalidConfig      = errors.New("invalid return zone config")
)

// Config holds the tunables of the flight model. Build it once and share it.
type Config struct {
	DefaultMaxReachKm  float64 // reach used when no absence duration was observed
	AbsoluteMaxReachM  float64 // hard cap on any estimated reach
	FlightSpeedMPerMin float64 // hornet round-trip speed, meters per minute of absence
	SpreadDeg          float64 // total angular width of the cone
}

// DefaultConfig returns the reference flight model.
func DefaultConfig() Config {
	return Config{
		DefaultMaxReachKm:  3,
		AbsoluteMaxReachM:  3000,
		FlightSpeedMPerMin: 100,
		SpreadDeg:          30,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.FlightSpeedMPerMin > 0):
		return fmt.Errorf("%w: flight speed must be positive", ErrInvalidConfig)
	case !(c.AbsoluteMaxReachM > 0):
		return fmt.Errorf("%w: absolute max reach must be positive", ErrInvalidConfig)
	case !(c.DefaultMaxReachKm >= 0) || c.DefaultMaxReachKm*1000 > c.AbsoluteMaxReachM:
		return fmt.Errorf("%w: default reach %v km outside [0, %v m]", ErrInvalidConfig, c.DefaultMaxReachKm, c.AbsoluteMaxReachM)
	case !(c.SpreadDeg > 0 && c.SpreadDeg < 180):
		return fmt.Errorf("%w: spread %v deg outside (0, 180)", ErrInvalidConfig, c.SpreadDeg)
	}
	return nil
}

// Observation is one directional sighting. AbsenceDurationSeconds is nil
// when the observer did not time the hornet's absence.
type Observation struct {
	Position               geodesy.Point
	BearingDeg             float64
	AbsenceDurationSeconds *int
}

func (o Observation) Validate() error {
	if err := o.Position.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}
	if math.IsNaN(o.BearingDeg) || math.IsInf(o.BearingDeg, 0) || o.BearingDeg < 0 || o.BearingDeg >= 360 {
		return fmt.Errorf("%w: bearing %v outside [0, 360)", ErrInvalidObservation, o.BearingDeg)
	}
	if o.AbsenceDurationSeconds != nil && *o.AbsenceDurationSeconds < 0 {
		return fmt.Errorf("%w: negative absence duration %d", ErrInvalidObservation, *o.AbsenceDurationSeconds)
	}
	return nil
}

// ReturnZone is the computed cone. Polygon is a closed ring:
// origin, left edge, tip, right edge, origin.
type ReturnZone struct {
	Origin      geodesy.Point   `json:"origin"`
	BearingDeg  float64         `json:"bearing_deg"`
	ReachKm     float64         `json:"reach_km"`
	SpreadDeg   float64         `json:"spread_deg"`
	IsEstimated bool            `json:"is_estimated"`
	Polygon     []geodesy.Point `json:"polygon"`
}

// Calculator computes return zones for a fixed Config.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg}, nil
}

func (c *Calculator) Config() Config { return c.cfg }

// ReachKm applies the distance-from-duration rule. A nil or zero duration
// yields the default reach; any positive duration is an estimate, even one
// that rounds to zero meters.
func (c *Calculator) ReachKm(durationSeconds *int) (reachKm float64, estimated bool) {
	if durationSeconds == nil || *durationSeconds <= 0 {
		return c.cfg.DefaultMaxReachKm, false
	}
	meters := math.Round(float64(*durationSeconds) / 60 * c.cfg.FlightSpeedMPerMin)
	meters = math.Min(meters, c.cfg.AbsoluteMaxReachM)
	return meters / 1000, true
}

// Compute builds the return zone of obs.
func (c *Calculator) Compute(obs Observation) (ReturnZone, error) {
	if err := obs.Validate(); err != nil {
		return ReturnZone{}, err
	}
	reach, estimated := c.ReachKm(obs.AbsenceDurationSeconds)
	half := c.cfg.SpreadDeg / 2

	left, tip, right := obs.Position, obs.Position, obs.Position
	if reach > 0 {
		left = geodesy.Destination(obs.Position, obs.BearingDeg-half, reach)
		tip = geodesy.Destination(obs.Position, obs.BearingDeg, reach)
		right = geodesy.Destination(obs.Position, obs.BearingDeg+half, reach)
	}

	return ReturnZone{
		Origin:      obs.Position,
		BearingDeg:  obs.BearingDeg,
		ReachKm:     reach,
		SpreadDeg:   c.cfg.SpreadDeg,
		IsEstimated: estimated,
		Polygon:     []geodesy.Point{obs.Position, left, tip, right, obs.Position},
	}, nil
}
