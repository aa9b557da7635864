package service

import (
	"context"
	"log"

	"vespawatch/internal/metrics"
	"vespawatch/pkg/declination"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/returnzone"
)

// ZoneResult is a return zone plus the declination correction applied to its
// bearing, if any.
type ZoneResult struct {
	Zone       returnzone.ReturnZone   `json:"zone"`
	Correction *declination.Correction `json:"correction,omitempty"`
}

// ZoneService chains the declination corrector and the return-zone calculator.
type ZoneService struct {
	calc      *returnzone.Calculator
	corrector *declination.Corrector
	metrics   *metrics.Collector
}

func NewZoneService(calc *returnzone.Calculator, corrector *declination.Corrector, m *metrics.Collector) *ZoneService {
	return &ZoneService{calc: calc, corrector: corrector, metrics: m}
}

// Compute returns the zone of obs. When magnetic is true the observation's
// bearing is a raw compass reading and is corrected to true north first; a
// failed lookup aborts the computation.
func (s *ZoneService) Compute(ctx context.Context, obs returnzone.Observation, magnetic bool) (ZoneResult, error) {
	var res ZoneResult
	if magnetic {
		corr, err := s.Correct(ctx, obs.Position, obs.BearingDeg)
		if err != nil {
			return ZoneResult{}, err
		}
		obs.BearingDeg = corr.CorrectedBearingDeg
		res.Correction = &corr
	}
	zone, err := s.calc.Compute(obs)
	if err != nil {
		return ZoneResult{}, err
	}
	s.metrics.ObserveZone(zone.IsEstimated)
	res.Zone = zone
	return res, nil
}

func (s *ZoneService) Correct(ctx context.Context, pos geodesy.Point, rawBearingDeg float64) (declination.Correction, error) {
	corr, err := s.corrector.CorrectBearing(ctx, pos, rawBearingDeg)
	s.metrics.ObserveDeclination(err)
	if err != nil {
		log.Printf("[declination] lookup failed at %.5f,%.5f: %v", pos.Lat, pos.Lng, err)
	}
	return corr, err
}

func (s *ZoneService) Config() returnzone.Config {
	return s.calc.Config()
}
