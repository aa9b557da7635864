package proximity

import (
	"math"

	"vespawatch/pkg/geodesy"
)

// MaxMercatorLat is the latitude at which Web Mercator is cut off.
const MaxMercatorLat = 85.0511287798

// DefaultTileSize is the pixel size of one tile at zoom 0.
const DefaultTileSize = 256.0

// Viewport is a snapshot of the map widget state.
type Viewport struct {
	Center   geodesy.Point `json:"center"`
	Zoom     float64       `json:"zoom"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	TileSize float64       `json:"tile_size,omitempty"`
}

// WebMercator projects through a spherical Web Mercator viewport, the
// transform used by slippy-map widgets. It is an immutable snapshot.
type WebMercator struct {
	vp     Viewport
	scale  float64
	origin Pixel // world pixel of the container's top-left corner
}

func NewWebMercator(vp Viewport) *WebMercator {
	if vp.TileSize <= 0 {
		vp.TileSize = DefaultTileSize
	}
	m := &WebMercator{vp: vp, scale: vp.TileSize * math.Exp2(vp.Zoom)}
	c := m.world(vp.Center)
	m.origin = Pixel{X: c.X - vp.Width/2, Y: c.Y - vp.Height/2}
	return m
}

func (m *WebMercator) Viewport() Viewport { return m.vp }

func (m *WebMercator) ToPixel(p geodesy.Point) Pixel {
	w := m.world(p)
	return Pixel{X: w.X - m.origin.X, Y: w.Y - m.origin.Y}
}

func (m *WebMercator) ToGeo(px Pixel) geodesy.Point {
	x := (px.X + m.origin.X) / m.scale
	y := (px.Y + m.origin.Y) / m.scale
	lng := x*360 - 180
	lat := geodesy.RadToDeg(math.Atan(math.Sinh(math.Pi * (1 - 2*y))))
	return geodesy.Point{Lat: lat, Lng: lng}
}

func (m *WebMercator) world(p geodesy.Point) Pixel {
	lat := math.Max(-MaxMercatorLat, math.Min(MaxMercatorLat, p.Lat))
	φ := geodesy.DegToRad(lat)
	x := (p.Lng + 180) / 360
	y := (1 - math.Log(math.Tan(φ)+1/math.Cos(φ))/math.Pi) / 2
	return Pixel{X: x * m.scale, Y: y * m.scale}
}
