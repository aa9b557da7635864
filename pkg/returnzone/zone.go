package returnzone

import "vespawatch/pkg/geodesy"

// Tip returns the on-bearing far vertex.
func (z ReturnZone) Tip() geodesy.Point {
	return z.Polygon[2]
}

// IsDegenerate reports whether the zone has no area.
func (z ReturnZone) IsDegenerate() bool {
	return z.ReachKm == 0
}

// Contains reports whether p lies inside the ring, using an even-odd ray cast
// on planar lat/lng. Longitudes are unwrapped around the origin first, so
// cones that cross ±180 work. Cones are a few km wide: the planar error is
// negligible.
func (z ReturnZone) Contains(p geodesy.Point) bool {
	if z.IsDegenerate() {
		return p == z.Origin
	}
	unwrap := func(q geodesy.Point) geodesy.Point {
		return geodesy.Point{Lat: q.Lat, Lng: z.Origin.Lng + geodesy.NormalizeLng(q.Lng-z.Origin.Lng)}
	}
	p = unwrap(p)
	ring := z.Polygon
	inside := false
	for i, j := 0, len(ring)-2; i < len(ring)-1; j, i = i, i+1 {
		a, b := unwrap(ring[i]), unwrap(ring[j])
		if (a.Lng > p.Lng) != (b.Lng > p.Lng) &&
			p.Lat < (b.Lat-a.Lat)*(p.Lng-a.Lng)/(b.Lng-a.Lng)+a.Lat {
			inside = !inside
		}
	}
	return inside
}

// Feature is a GeoJSON Feature holding the zone polygon.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Polygon geometry. Coordinates are [lng, lat].
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// GeoJSON renders the zone as a GeoJSON Feature for map overlays.
func (z ReturnZone) GeoJSON() Feature {
	ring := make([][2]float64, len(z.Polygon))
	for i, p := range z.Polygon {
		ring[i] = [2]float64{p.Lng, p.Lat}
	}
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Polygon",
			Coordinates: [][][2]float64{ring},
		},
		Properties: map[string]any{
			"bearing_deg":  z.BearingDeg,
			"reach_km":     z.ReachKm,
			"spread_deg":   z.SpreadDeg,
			"is_estimated": z.IsEstimated,
		},
	}
}
