package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vespawatch/internal/domain"
	"vespawatch/internal/models"
	"vespawatch/internal/repository"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/overlap"
	"vespawatch/pkg/proximity"
)

type fakeHornets struct {
	list  []models.Hornet
	boxes []repository.BoundingBox
}

// ListInBox mirrors the repository: id order, box filter, then limit.
func (f *fakeHornets) ListInBox(box repository.BoundingBox, limit int) ([]models.Hornet, error) {
	f.boxes = append(f.boxes, box)
	var out []models.Hornet
	for _, h := range f.list {
		if len(out) == limit {
			break
		}
		if box.Contains(h.Position()) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHornets) ListRecent(int) ([]models.Hornet, error) { return f.list, nil }

type fakeApiaries struct {
	list  []models.Apiary
	err   error
	calls int
}

func (f *fakeApiaries) ListInBox(_ repository.BoundingBox, _ int) ([]models.Apiary, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeApiaries) ListRecent(int) ([]models.Apiary, error) { return f.list, f.err }

type fakeNests struct{ list []models.Nest }

func (f *fakeNests) ListInBox(_ repository.BoundingBox, _ int) ([]models.Nest, error) {
	return f.list, nil
}

func (f *fakeNests) ListRecent(int) ([]models.Nest, error) { return f.list, nil }

var brussels = geodesy.Point{Lat: 50.85, Lng: 4.35}

func testViewport(zoom float64) proximity.Viewport {
	return proximity.Viewport{Center: brussels, Zoom: zoom, Width: 800, Height: 600}
}

func newMapService(t *testing.T, h *fakeHornets, a *fakeApiaries, n *fakeNests) *MapService {
	t.Helper()
	r, err := overlap.NewResolver(overlap.DefaultConfig())
	require.NoError(t, err)
	return NewMapService(h, a, n, r, nil)
}

func TestResolveClickAutoZoom(t *testing.T) {
	h := &fakeHornets{list: []models.Hornet{{ID: 1, Latitude: brussels.Lat, Longitude: brussels.Lng, Direction: 45}}}
	a := &fakeApiaries{list: []models.Apiary{{ID: 2, Latitude: 50.9, Longitude: 4.5}}}
	n := &fakeNests{list: []models.Nest{{ID: 3, Latitude: brussels.Lat, Longitude: brussels.Lng}}}
	svc := newMapService(t, h, a, n)

	res, err := svc.ResolveClick(context.Background(), Click{
		Point:    proximity.Pixel{X: 400, Y: 300},
		Viewport: testViewport(15),
		Show:     Visibility{Hornets: true, Apiaries: true, Nests: true},
	})
	require.NoError(t, err)
	assert.True(t, res.HasOverlap)
	assert.True(t, res.CanAutoSeparate)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, proximity.KindHornet, res.Matches[0].Kind)
	assert.Equal(t, proximity.KindNest, res.Matches[1].Kind)

	zoom, ok := res.Outcome.(overlap.AutoZoom)
	require.True(t, ok)
	assert.Equal(t, 17.0, zoom.TargetZoom)
	assert.InDelta(t, brussels.Lat, zoom.Center.Lat, 1e-9)
	assert.InDelta(t, brussels.Lng, zoom.Center.Lng, 1e-9)

	require.Len(t, h.boxes, 1)
	box := h.boxes[0]
	assert.True(t, box.Valid())
	assert.Less(t, box.MinLat, brussels.Lat)
	assert.Greater(t, box.MaxLat, brussels.Lat)
	assert.Less(t, box.MinLng, brussels.Lng)
	assert.Greater(t, box.MaxLng, brussels.Lng)
}

func TestResolveClickSkipsHiddenLayers(t *testing.T) {
	h := &fakeHornets{list: []models.Hornet{{ID: 1, Latitude: brussels.Lat, Longitude: brussels.Lng}}}
	a := &fakeApiaries{}
	n := &fakeNests{list: []models.Nest{{ID: 3, Latitude: brussels.Lat, Longitude: brussels.Lng}}}
	svc := newMapService(t, h, a, n)

	res, err := svc.ResolveClick(context.Background(), Click{
		Point:    proximity.Pixel{X: 400, Y: 300},
		Viewport: testViewport(15),
		Show:     Visibility{Nests: true},
	})
	require.NoError(t, err)
	assert.Empty(t, h.boxes)
	assert.Zero(t, a.calls)
	single, ok := res.Outcome.(overlap.SingleMatch)
	require.True(t, ok)
	assert.Equal(t, uint(3), single.Object.ID)
	assert.Equal(t, "Nest #3", single.Object.Display.Title)
}

func TestResolveClickMissIsNoMatch(t *testing.T) {
	h := &fakeHornets{list: []models.Hornet{{ID: 1, Latitude: brussels.Lat, Longitude: brussels.Lng}}}
	svc := newMapService(t, h, &fakeApiaries{}, &fakeNests{})

	res, err := svc.ResolveClick(context.Background(), Click{
		Point:    proximity.Pixel{X: 10, Y: 10},
		Viewport: testViewport(15),
		Show:     Visibility{Hornets: true},
	})
	require.NoError(t, err)
	assert.IsType(t, overlap.NoMatch{}, res.Outcome)
	assert.False(t, res.HasOverlap)
}

func TestResolveClickErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := newMapService(t, &fakeHornets{}, &fakeApiaries{err: boom}, &fakeNests{})

	_, err := svc.ResolveClick(context.Background(), Click{Viewport: testViewport(15), Show: Visibility{Apiaries: true}})
	assert.ErrorIs(t, err, boom)

	_, err = svc.ResolveClick(context.Background(), Click{Viewport: proximity.Viewport{Center: brussels, Zoom: 15}})
	assert.ErrorIs(t, err, proximity.ErrNoProjection)

	vp := testViewport(15)
	vp.Center.Lat = 91
	_, err = svc.ResolveClick(context.Background(), Click{Viewport: vp})
	assert.ErrorIs(t, err, geodesy.ErrInvalidCoordinate)
}

func TestResolveClickBoxes(t *testing.T) {
	h := &fakeHornets{}
	svc := newMapService(t, h, &fakeApiaries{}, &fakeNests{})
	show := Visibility{Hornets: true}
	center := proximity.Pixel{X: 400, Y: 300}

	_, err := svc.ResolveClick(context.Background(), Click{Point: center, Viewport: testViewport(15), Show: show})
	require.NoError(t, err)
	tight := h.boxes[0]
	assert.Greater(t, tight.MaxLng-tight.MinLng, 0.0)
	assert.Less(t, tight.MaxLng-tight.MinLng, 0.01, "box should only cover the click threshold")

	dateline := proximity.Viewport{Center: geodesy.Point{Lat: 0, Lng: 179.99}, Zoom: 10, Width: 800, Height: 600}
	_, err = svc.ResolveClick(context.Background(), Click{Point: center, Viewport: dateline, Show: show})
	require.NoError(t, err)
	box := h.boxes[1]
	assert.True(t, box.Valid())
	assert.Greater(t, box.MinLng, box.MaxLng, "box should wrap the antimeridian")

	tiny := proximity.Viewport{Center: geodesy.Point{}, Zoom: 0, Width: 16, Height: 16, TileSize: 16}
	_, err = svc.ResolveClick(context.Background(), Click{Point: proximity.Pixel{X: 8, Y: 8}, Viewport: tiny, Show: show})
	require.NoError(t, err)
	assert.Equal(t, -180.0, h.boxes[2].MinLng)
	assert.Equal(t, 180.0, h.boxes[2].MaxLng)

	_, err = svc.ResolveClick(context.Background(), Click{
		Point: center, Viewport: testViewport(15), Show: show,
		Box: &repository.BoundingBox{MinLat: 51, MaxLat: 50},
	})
	assert.ErrorIs(t, err, repository.ErrInvalidBox)
}

func TestResolveClickClientBoxFilters(t *testing.T) {
	h := &fakeHornets{list: []models.Hornet{{ID: 1, Latitude: brussels.Lat, Longitude: brussels.Lng}}}
	svc := newMapService(t, h, &fakeApiaries{}, &fakeNests{})
	click := Click{Point: proximity.Pixel{X: 400, Y: 300}, Viewport: testViewport(15), Show: Visibility{Hornets: true}}

	click.Box = &repository.BoundingBox{MinLat: 50, MaxLat: 51, MinLng: 4, MaxLng: 5}
	res, err := svc.ResolveClick(context.Background(), click)
	require.NoError(t, err)
	assert.IsType(t, overlap.SingleMatch{}, res.Outcome)

	click.Box = &repository.BoundingBox{MinLat: 40, MaxLat: 41, MinLng: 4, MaxLng: 5}
	res, err = svc.ResolveClick(context.Background(), click)
	require.NoError(t, err)
	assert.IsType(t, overlap.NoMatch{}, res.Outcome)
}

func TestResolveClickDenseViewFindsNewest(t *testing.T) {
	// Older sightings fill the layer limit but sit ~70 px east of the cursor.
	n := domain.MaxMapObjectsPerLayer + 100
	list := make([]models.Hornet, 0, n)
	for i := 1; i < n; i++ {
		list = append(list, models.Hornet{ID: uint(i), Latitude: brussels.Lat, Longitude: brussels.Lng + 0.003})
	}
	list = append(list, models.Hornet{ID: uint(n), Latitude: brussels.Lat, Longitude: brussels.Lng})
	svc := newMapService(t, &fakeHornets{list: list}, &fakeApiaries{}, &fakeNests{})

	res, err := svc.ResolveClick(context.Background(), Click{
		Point:    proximity.Pixel{X: 400, Y: 300},
		Viewport: testViewport(15),
		Show:     Visibility{Hornets: true},
	})
	require.NoError(t, err)
	single, ok := res.Outcome.(overlap.SingleMatch)
	require.True(t, ok, "got %T", res.Outcome)
	assert.Equal(t, uint(n), single.Object.ID)
}

func TestRecent(t *testing.T) {
	h := &fakeHornets{list: []models.Hornet{{ID: 1}}}
	a := &fakeApiaries{list: []models.Apiary{{ID: 2}}}
	n := &fakeNests{list: []models.Nest{{ID: 3}}}
	svc := newMapService(t, h, a, n)

	objs, err := svc.Recent(10)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, []proximity.Kind{proximity.KindHornet, proximity.KindApiary, proximity.KindNest},
		[]proximity.Kind{objs[0].Kind, objs[1].Kind, objs[2].Kind})

	a.err = errors.New("boom")
	_, err = svc.Recent(10)
	assert.Error(t, err)
}

func TestMapObjectBuilders(t *testing.T) {
	d := 90
	h := HornetObject(&models.Hornet{ID: 7, Direction: 45, DurationSeconds: &d, MarkColor1: "red"})
	assert.Equal(t, proximity.KindHornet, h.Kind)
	assert.Equal(t, []string{"red"}, h.Display.Colors)
	assert.Equal(t, "Away 90 s, heading 45°", h.Display.Subtitle)

	n := NestObject(&models.Nest{ID: 4, Destroyed: true})
	assert.Equal(t, "nest-destroyed", n.Display.Symbol)

	a := ApiaryObjects([]models.Apiary{{ID: 1, InfestationLevel: 2}, {ID: 2}})
	require.Len(t, a, 2)
	assert.Equal(t, "Infestation level 2", a[0].Display.Subtitle)
	assert.Equal(t, uint(2), a[1].ID)
}
