package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vespawatch/pkg/geodesy"
)

// planar treats Lng as x and Lat as y, in pixels.
type planar struct{}

func (planar) ToPixel(p geodesy.Point) Pixel { return Pixel{X: p.Lng, Y: p.Lat} }
func (planar) ToGeo(px Pixel) geodesy.Point { return geodesy.Point{Lat: px.Y, Lng: px.X} }

func obj(kind Kind, id uint, x, y float64) MapObject {
	return MapObject{Kind: kind, ID: id, Position: geodesy.Point{Lat: y, Lng: x}}
}

func ids(objs []MapObject) []uint {
	out := make([]uint, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func TestFindNearbyThreeHornets(t *testing.T) {
	click := Pixel{X: 100, Y: 100}
	sets := CandidateSets{Hornets: Layer{Visible: true, Objects: []MapObject{
		obj(KindHornet, 1, 110, 100), // 10 px
		obj(KindHornet, 2, 100, 140), // 40 px
		obj(KindHornet, 3, 300, 100), // 200 px
	}}}
	got, err := FindNearby(click, sets, planar{}, DefaultThresholdPx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids(got))
}

func TestFindNearbyScanOrderAcrossKinds(t *testing.T) {
	click := Pixel{X: 0, Y: 0}
	sets := CandidateSets{
		Nests:    Layer{Visible: true, Objects: []MapObject{obj(KindNest, 30, 1, 1), obj(KindNest, 31, 2, 2)}},
		Apiaries: Layer{Visible: true, Objects: []MapObject{obj(KindApiary, 20, 3, 0)}},
		Hornets:  Layer{Visible: true, Objects: []MapObject{obj(KindHornet, 11, 0, 5), obj(KindHornet, 10, 0, 1)}},
	}
	got, err := FindNearby(click, sets, planar{}, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint{11, 10, 20, 30, 31}, ids(got))
	assert.Equal(t, []Kind{KindHornet, KindHornet, KindApiary, KindNest, KindNest},
		[]Kind{got[0].Kind, got[1].Kind, got[2].Kind, got[3].Kind, got[4].Kind})

	again, err := FindNearby(click, sets, planar{}, 50)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFindNearbySkipsHiddenLayers(t *testing.T) {
	sets := CandidateSets{
		Hornets:  Layer{Visible: false, Objects: []MapObject{obj(KindHornet, 1, 0, 0)}},
		Apiaries: Layer{Visible: true, Objects: []MapObject{obj(KindApiary, 2, 0, 0)}},
		Nests:    Layer{Visible: false, Objects: []MapObject{obj(KindNest, 3, 0, 0)}},
	}
	got, err := FindNearby(Pixel{}, sets, planar{}, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids(got))
}

func TestFindNearbyThresholdIsInclusive(t *testing.T) {
	sets := CandidateSets{Nests: Layer{Visible: true, Objects: []MapObject{
		obj(KindNest, 1, 30, 40), // exactly 50 px
		obj(KindNest, 2, 30, 40.001),
	}}}
	got, err := FindNearby(Pixel{}, sets, planar{}, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids(got))

	got, err = FindNearby(Pixel{X: 30, Y: 40}, sets, planar{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids(got))
}

func TestFindNearbyEmpty(t *testing.T) {
	got, err := FindNearby(Pixel{}, CandidateSets{}, planar{}, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindNearbyErrors(t *testing.T) {
	_, err := FindNearby(Pixel{}, CandidateSets{}, nil, 50)
	assert.ErrorIs(t, err, ErrNoProjection)

	_, err = FindNearby(Pixel{}, CandidateSets{}, planar{}, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = FindNearby(Pixel{}, CandidateSets{}, planar{}, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = FindNearby(Pixel{X: math.NaN()}, CandidateSets{}, planar{}, 50)
	assert.ErrorIs(t, err, ErrInvalidClick)
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.Valid())
	}
	assert.False(t, Kind("wasp").Valid())
}

func TestWebMercator(t *testing.T) {
	center := geodesy.Point{Lat: 50.491064, Lng: 4.884473}
	m := NewWebMercator(Viewport{Center: center, Zoom: 15, Width: 800, Height: 600})

	c := m.ToPixel(center)
	assert.InDelta(t, 400, c.X, 1e-6)
	assert.InDelta(t, 300, c.Y, 1e-6)

	east := m.ToPixel(geodesy.Destination(center, 90, 0.1))
	assert.Greater(t, east.X, c.X)
	assert.InDelta(t, c.Y, east.Y, 0.01)

	north := m.ToPixel(geodesy.Destination(center, 0, 0.1))
	assert.Less(t, north.Y, c.Y)

	for _, px := range []Pixel{{0, 0}, {800, 600}, {123.4, 567.8}, {400, 300}} {
		back := m.ToPixel(m.ToGeo(px))
		assert.InDelta(t, px.X, back.X, 1e-6)
		assert.InDelta(t, px.Y, back.Y, 1e-6)
	}

	p := geodesy.Destination(center, 45, 0.3)
	g := m.ToGeo(m.ToPixel(p))
	assert.InDelta(t, p.Lat, g.Lat, 1e-9)
	assert.InDelta(t, p.Lng, g.Lng, 1e-9)
}

func TestWebMercatorZoomDoublesDistance(t *testing.T) {
	center := geodesy.Point{Lat: 50.49, Lng: 4.88}
	p := geodesy.Destination(center, 60, 0.05)
	at15 := NewWebMercator(Viewport{Center: center, Zoom: 15, Width: 512, Height: 512})
	at16 := NewWebMercator(Viewport{Center: center, Zoom: 16, Width: 512, Height: 512})

	d15 := at15.ToPixel(center).DistanceTo(at15.ToPixel(p))
	d16 := at16.ToPixel(center).DistanceTo(at16.ToPixel(p))
	assert.InEpsilon(t, 2*d15, d16, 1e-9)
	assert.Equal(t, DefaultTileSize, at15.Viewport().TileSize)
}
