package service

import (
	"context"
	"fmt"
	"math"

	"vespawatch/internal/domain"
	"vespawatch/internal/metrics"
	"vespawatch/internal/models"
	"vespawatch/internal/repository"
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/overlap"
	"vespawatch/pkg/proximity"
)

type HornetLister interface {
	ListInBox(box repository.BoundingBox, limit int) ([]models.Hornet, error)
	ListRecent(limit int) ([]models.Hornet, error)
}

type ApiaryLister interface {
	ListInBox(box repository.BoundingBox, limit int) ([]models.Apiary, error)
	ListRecent(limit int) ([]models.Apiary, error)
}

type NestLister interface {
	ListInBox(box repository.BoundingBox, limit int) ([]models.Nest, error)
	ListRecent(limit int) ([]models.Nest, error)
}

// Visibility says which layers are drawn on the client map.
type Visibility struct {
	Hornets  bool `json:"hornets"`
	Apiaries bool `json:"apiaries"`
	Nests    bool `json:"nests"`
}

// Click is one map click as reported by the client widget.
type Click struct {
	Point    proximity.Pixel
	Viewport proximity.Viewport
	Show     Visibility
	// Box, if set, replaces the box derived from the viewport.
	Box *repository.BoundingBox
}

// MapService turns stored records into map objects and resolves clicks on them.
type MapService struct {
	hornets  HornetLister
	apiaries ApiaryLister
	nests    NestLister
	resolver *overlap.Resolver
	metrics  *metrics.Collector
}

func NewMapService(h HornetLister, a ApiaryLister, n NestLister, resolver *overlap.Resolver, m *metrics.Collector) *MapService {
	return &MapService{hornets: h, apiaries: a, nests: n, resolver: resolver, metrics: m}
}

// ResolveClick loads the records drawn within the click threshold of the
// cursor and resolves the click against them.
func (s *MapService) ResolveClick(ctx context.Context, click Click) (overlap.QueryResult, error) {
	if !(click.Viewport.Width > 0 && click.Viewport.Height > 0) {
		return overlap.QueryResult{}, fmt.Errorf("%w: viewport has no size", proximity.ErrNoProjection)
	}
	if err := click.Viewport.Center.Validate(); err != nil {
		return overlap.QueryResult{}, err
	}
	proj := proximity.NewWebMercator(click.Viewport)
	var visible *repository.BoundingBox
	if click.Box != nil {
		b, err := s.clientBox(proj, *click.Box)
		if err != nil {
			return overlap.QueryResult{}, err
		}
		visible = &b
	}
	sets, err := s.candidates(ctx, s.clickBox(proj, click.Point), visible, click.Show)
	if err != nil {
		return overlap.QueryResult{}, err
	}
	res, err := s.resolver.Query(click.Point, sets, proj, click.Viewport.Zoom)
	if err != nil {
		return overlap.QueryResult{}, err
	}
	s.metrics.ObserveOutcome(string(res.Outcome.Kind()))
	return res, nil
}

// clickBox covers every point within the click threshold of px, so the
// per-layer limit only ever applies to objects that could match.
func (s *MapService) clickBox(proj *proximity.WebMercator, px proximity.Pixel) repository.BoundingBox {
	pad := s.resolver.Config().ThresholdPx + 1
	nw := proj.ToGeo(proximity.Pixel{X: px.X - pad, Y: px.Y - pad})
	se := proj.ToGeo(proximity.Pixel{X: px.X + pad, Y: px.Y + pad})
	box := repository.BoundingBox{
		MinLat: math.Max(-90, se.Lat),
		MaxLat: math.Min(90, nw.Lat),
		MinLng: -180,
		MaxLng: 180,
	}
	if se.Lng-nw.Lng < 360 {
		// MinLng > MaxLng after wrapping means the box crosses the antimeridian.
		box.MinLng, box.MaxLng = geodesy.NormalizeLng(nw.Lng), geodesy.NormalizeLng(se.Lng)
	}
	return box
}

// clientBox pads the box the client has loaded by the click threshold,
// measured in longitude degrees at the current zoom.
func (s *MapService) clientBox(proj *proximity.WebMercator, box repository.BoundingBox) (repository.BoundingBox, error) {
	if !box.Valid() {
		return box, repository.ErrInvalidBox
	}
	pad := s.resolver.Config().ThresholdPx
	deg := proj.ToGeo(proximity.Pixel{X: pad}).Lng - proj.ToGeo(proximity.Pixel{}).Lng
	return box.Pad(deg), nil
}

// candidates loads each shown layer inside box. When visible is set, objects
// the client has not loaded are dropped.
func (s *MapService) candidates(_ context.Context, box repository.BoundingBox, visible *repository.BoundingBox, show Visibility) (proximity.CandidateSets, error) {
	var sets proximity.CandidateSets
	limit := domain.MaxMapObjectsPerLayer
	if show.Hornets {
		list, err := s.hornets.ListInBox(box, limit)
		if err != nil {
			return sets, fmt.Errorf("list hornets: %w", err)
		}
		sets.Hornets = proximity.Layer{Visible: true, Objects: within(HornetObjects(list), visible)}
	}
	if show.Apiaries {
		list, err := s.apiaries.ListInBox(box, limit)
		if err != nil {
			return sets, fmt.Errorf("list apiaries: %w", err)
		}
		sets.Apiaries = proximity.Layer{Visible: true, Objects: within(ApiaryObjects(list), visible)}
	}
	if show.Nests {
		list, err := s.nests.ListInBox(box, limit)
		if err != nil {
			return sets, fmt.Errorf("list nests: %w", err)
		}
		sets.Nests = proximity.Layer{Visible: true, Objects: within(NestObjects(list), visible)}
	}
	return sets, nil
}

func within(objs []proximity.MapObject, box *repository.BoundingBox) []proximity.MapObject {
	if box == nil {
		return objs
	}
	out := objs[:0]
	for _, o := range objs {
		if box.Contains(o.Position) {
			out = append(out, o)
		}
	}
	return out
}

// Recent returns the latest reports of every kind as map objects, in layer order.
func (s *MapService) Recent(perLayer int) ([]proximity.MapObject, error) {
	h, err := s.hornets.ListRecent(perLayer)
	if err != nil {
		return nil, fmt.Errorf("recent hornets: %w", err)
	}
	a, err := s.apiaries.ListRecent(perLayer)
	if err != nil {
		return nil, fmt.Errorf("recent apiaries: %w", err)
	}
	n, err := s.nests.ListRecent(perLayer)
	if err != nil {
		return nil, fmt.Errorf("recent nests: %w", err)
	}
	out := make([]proximity.MapObject, 0, len(h)+len(a)+len(n))
	out = append(out, HornetObjects(h)...)
	out = append(out, ApiaryObjects(a)...)
	return append(out, NestObjects(n)...), nil
}
