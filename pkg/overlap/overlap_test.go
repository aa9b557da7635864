package overlap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/proximity"
)

type planar struct{}

func (planar) ToPixel(p geodesy.Point) proximity.Pixel {
	return proximity.Pixel{X: p.Lng, Y: p.Lat}
}

func (planar) ToGeo(px proximity.Pixel) geodesy.Point {
	return geodesy.Point{Lat: px.Y, Lng: px.X}
}

var click = geodesy.Point{Lat: 50.491064, Lng: 4.884473}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultConfig())
	require.NoError(t, err)
	return r
}

func twoMatches() []proximity.MapObject {
	return []proximity.MapObject{
		{Kind: proximity.KindHornet, ID: 1, Position: click},
		{Kind: proximity.KindNest, ID: 7, Position: click},
	}
}

func TestResolveNoMatch(t *testing.T) {
	out, err := newResolver(t).Resolve(nil, 12, click)
	require.NoError(t, err)
	assert.Equal(t, NoMatch{}, out)
	assert.Equal(t, KindNoMatch, out.Kind())
}

func TestResolveSingleMatch(t *testing.T) {
	m := twoMatches()[:1]
	for _, zoom := range []float64{3, 18, 21} {
		out, err := newResolver(t).Resolve(m, zoom, click)
		require.NoError(t, err)
		single, ok := out.(SingleMatch)
		require.True(t, ok, "zoom=%v", zoom)
		assert.Equal(t, uint(1), single.Object.ID)
	}
}

func TestResolveAutoZoomThenAmbiguous(t *testing.T) {
	r := newResolver(t)

	out, err := r.Resolve(twoMatches(), 15, click)
	require.NoError(t, err)
	az, ok := out.(AutoZoom)
	require.True(t, ok)
	assert.Equal(t, 17.0, az.TargetZoom)
	assert.Equal(t, click, az.Center)

	out, err = r.Resolve(twoMatches(), 17, click)
	require.NoError(t, err)
	az, ok = out.(AutoZoom)
	require.True(t, ok)
	assert.Equal(t, 18.0, az.TargetZoom)

	out, err = r.Resolve(twoMatches(), 18, click)
	require.NoError(t, err)
	amb, ok := out.(Ambiguous)
	require.True(t, ok)
	assert.Equal(t, twoMatches(), amb.Matches)
	assert.Equal(t, KindAmbiguous, amb.Kind())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newResolver(t)
	for _, zoom := range []float64{10, 17.5, 18, 20} {
		a, err := r.Resolve(twoMatches(), zoom, click)
		require.NoError(t, err)
		b, err := r.Resolve(twoMatches(), zoom, click)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestResolveRejectsInvalidZoom(t *testing.T) {
	_, err := newResolver(t).Resolve(twoMatches(), math.NaN(), click)
	assert.ErrorIs(t, err, ErrInvalidZoom)
}

func TestConfigValidate(t *testing.T) {
	_, err := NewResolver(Config{ThresholdPx: 50, MinZoomToSeparate: 18, ZoomStep: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewResolver(Config{ThresholdPx: -1, MinZoomToSeparate: 18, ZoomStep: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewResolver(Config{ThresholdPx: 50, MinZoomToSeparate: math.Inf(1), ZoomStep: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestQuery(t *testing.T) {
	r := newResolver(t)
	sets := proximity.CandidateSets{
		Hornets:  proximity.Layer{Visible: true, Objects: []proximity.MapObject{{Kind: proximity.KindHornet, ID: 1, Position: geodesy.Point{Lat: 10, Lng: 10}}}},
		Apiaries: proximity.Layer{Visible: true, Objects: []proximity.MapObject{{Kind: proximity.KindApiary, ID: 2, Position: geodesy.Point{Lat: 20, Lng: 20}}}},
		Nests:    proximity.Layer{Visible: true, Objects: []proximity.MapObject{{Kind: proximity.KindNest, ID: 3, Position: geodesy.Point{Lat: 500, Lng: 500}}}},
	}
	px := proximity.Pixel{X: 12, Y: 12}

	res, err := r.Query(px, sets, planar{}, 15)
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.True(t, res.HasOverlap)
	assert.True(t, res.CanAutoSeparate)
	az, ok := res.Outcome.(AutoZoom)
	require.True(t, ok)
	assert.Equal(t, 17.0, az.TargetZoom)
	assert.Equal(t, geodesy.Point{Lat: 12, Lng: 12}, az.Center)

	res, err = r.Query(px, sets, planar{}, 18)
	require.NoError(t, err)
	assert.True(t, res.HasOverlap)
	assert.False(t, res.CanAutoSeparate)
	assert.IsType(t, Ambiguous{}, res.Outcome)

	res, err = r.Query(proximity.Pixel{X: 495, Y: 495}, sets, planar{}, 15)
	require.NoError(t, err)
	assert.False(t, res.HasOverlap)
	assert.False(t, res.CanAutoSeparate)
	assert.IsType(t, SingleMatch{}, res.Outcome)

	res, err = r.Query(proximity.Pixel{X: 5000, Y: 5000}, sets, planar{}, 15)
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.IsType(t, NoMatch{}, res.Outcome)

	_, err = r.Query(px, sets, nil, 15)
	assert.ErrorIs(t, err, proximity.ErrNoProjection)
}

func TestChoicesAndLabels(t *testing.T) {
	amb := Ambiguous{Matches: []proximity.MapObject{
		{Kind: proximity.KindHornet, ID: 4},
		{Kind: proximity.KindApiary, ID: 5, Display: proximity.DisplayMeta{Title: "Rucher du bois"}},
		{Kind: proximity.KindNest, ID: 6},
	}}
	assert.Equal(t, []Choice{
		{Kind: proximity.KindHornet, ID: 4, Label: "Hornet #4"},
		{Kind: proximity.KindApiary, ID: 5, Label: "Rucher du bois"},
		{Kind: proximity.KindNest, ID: 6, Label: "Nest #6"},
	}, amb.Choices())
}
