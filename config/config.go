package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"vespawatch/pkg/overlap"
	"vespawatch/pkg/returnzone"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Geo         GeoConfig
	Declination DeclinationConfig
	Cloudinary  CloudinaryConfig
	RateLimit   RateLimitConfig
	Admin       AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// GeoConfig holds every tunable of the return-zone and overlap logic.
// Components receive a copy at construction; nothing reads it globally.
type GeoConfig struct {
	DefaultMaxReachKm   float64
	AbsoluteMaxReachM   float64
	FlightSpeedMPerMin  float64
	ReturnZoneSpreadDeg float64
	OverlapThresholdPx  float64
	MinZoomToSeparate   float64
	ZoomStep            float64
}

// DeclinationConfig selects the geomagnetic model. Provider is "noaa" or
// "fixed"; FixedDeg is only read for "fixed".
type DeclinationConfig struct {
	Provider string
	NOAAURL  string
	NOAAKey  string
	Model    string
	FixedDeg float64
	Timeout  time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// AdminConfig seeds the first ADMIN account; seeding is skipped while Password is empty.
type AdminConfig struct {
	Email    string
	Username string
	Password string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "vespawatch:vespawatch@tcp(localhost:3306)/vespawatch?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        "vespawatch",
		},
		Geo: GeoConfig{
			DefaultMaxReachKm:   getFloat("GEO_DEFAULT_MAX_REACH_KM", 3),
			AbsoluteMaxReachM:   getFloat("GEO_ABSOLUTE_MAX_REACH_M", 3000),
			FlightSpeedMPerMin:  getFloat("GEO_FLIGHT_SPEED_M_PER_MIN", 100),
			ReturnZoneSpreadDeg: getFloat("GEO_RETURN_ZONE_SPREAD_DEG", 30),
			OverlapThresholdPx:  getFloat("GEO_OVERLAP_THRESHOLD_PX", 50),
			MinZoomToSeparate:   getFloat("GEO_MIN_ZOOM_TO_SEPARATE", 18),
			ZoomStep:            getFloat("GEO_ZOOM_STEP", 2),
		},
		Declination: DeclinationConfig{
			Provider: getEnv("DECLINATION_PROVIDER", "noaa"),
			NOAAURL:  getEnv("DECLINATION_NOAA_URL", ""),
			NOAAKey:  getEnv("DECLINATION_NOAA_KEY", ""),
			Model:    getEnv("DECLINATION_MODEL", "WMM"),
			FixedDeg: getFloat("DECLINATION_FIXED_DEG", 0),
			Timeout:  getDuration("DECLINATION_TIMEOUT", 5*time.Second),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "vespawatch"),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@vespawatch.local"),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

// Validate checks the geo tunables through the components that consume them.
func (c *Config) Validate() error {
	if err := c.Geo.ReturnZone().Validate(); err != nil {
		return err
	}
	if err := c.Geo.Overlap().Validate(); err != nil {
		return err
	}
	switch c.Declination.Provider {
	case "noaa", "fixed":
	default:
		return fmt.Errorf("unknown declination provider %q", c.Declination.Provider)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must allow at least one request per positive window")
	}
	return nil
}

func (g GeoConfig) ReturnZone() returnzone.Config {
	return returnzone.Config{
		DefaultMaxReachKm:  g.DefaultMaxReachKm,
		AbsoluteMaxReachM:  g.AbsoluteMaxReachM,
		FlightSpeedMPerMin: g.FlightSpeedMPerMin,
		SpreadDeg:          g.ReturnZoneSpreadDeg,
	}
}

func (g GeoConfig) Overlap() overlap.Config {
	return overlap.Config{
		ThresholdPx:       g.OverlapThresholdPx,
		MinZoomToSeparate: g.MinZoomToSeparate,
		ZoomStep:          g.ZoomStep,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		badValue(key, v, def)
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
		badValue(key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		badValue(key, v, def)
	}
	return def
}

func badValue(key, raw string, def any) {
	log.Printf("[config] ignoring malformed %s=%q, using default %v", key, raw, def)
}
