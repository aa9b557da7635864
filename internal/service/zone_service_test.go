package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vespawatch/internal/metrics"
	"vespawatch/pkg/declination"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/returnzone"
)

func newZoneService(t *testing.T, model declination.Model) (*ZoneService, *metrics.Collector) {
	t.Helper()
	calc, err := returnzone.NewCalculator(returnzone.DefaultConfig())
	require.NoError(t, err)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewZoneService(calc, declination.NewCorrector(model), m), m
}

func TestZoneServiceComputeTrueBearing(t *testing.T) {
	svc, m := newZoneService(t, declination.FixedModel(10))
	d := 120
	obs := returnzone.Observation{Position: geodesy.Point{Lat: 50, Lng: 4}, BearingDeg: 90, AbsenceDurationSeconds: &d}

	res, err := svc.Compute(context.Background(), obs, false)
	require.NoError(t, err)
	assert.Nil(t, res.Correction)
	assert.Equal(t, 90.0, res.Zone.BearingDeg)
	assert.InDelta(t, 0.2, res.Zone.ReachKm, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Zones.WithLabelValues("false")))
}

func TestZoneServiceComputeMagnetic(t *testing.T) {
	svc, m := newZoneService(t, declination.FixedModel(-5))
	obs := returnzone.Observation{Position: geodesy.Point{Lat: 50, Lng: 4}, BearingDeg: 2}

	res, err := svc.Compute(context.Background(), obs, true)
	require.NoError(t, err)
	require.NotNil(t, res.Correction)
	assert.Equal(t, 2.0, res.Correction.RawBearingDeg)
	assert.InDelta(t, 357.0, res.Zone.BearingDeg, 1e-9)
	assert.True(t, res.Zone.IsEstimated)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Zones.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeclinationLookups.WithLabelValues("ok")))
}

func TestZoneServiceModelFailureAborts(t *testing.T) {
	failing := declination.ModelFunc(func(context.Context, geodesy.Point) (float64, error) {
		return 0, errors.New("down")
	})
	svc, m := newZoneService(t, failing)
	obs := returnzone.Observation{Position: geodesy.Point{Lat: 50, Lng: 4}, BearingDeg: 2}

	_, err := svc.Compute(context.Background(), obs, true)
	assert.ErrorIs(t, err, declination.ErrModelUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeclinationLookups.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Zones.WithLabelValues("true")))
}

func TestZoneServiceNilMetrics(t *testing.T) {
	calc, err := returnzone.NewCalculator(returnzone.DefaultConfig())
	require.NoError(t, err)
	svc := NewZoneService(calc, declination.NewCorrector(declination.FixedModel(0)), nil)

	_, err = svc.Compute(context.Background(), returnzone.Observation{BearingDeg: 10}, true)
	assert.NoError(t, err)
}
