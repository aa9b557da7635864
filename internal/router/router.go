package router

import (
	"context"
	"log"
	"net/http"
	"time"

	"vespawatch/config"
	"vespawatch/internal/domain"
	"vespawatch/internal/handler"
	"vespawatch/internal/metrics"
	"vespawatch/internal/middleware"
	"vespawatch/internal/repository"
	"vespawatch/internal/service"
	"vespawatch/internal/ws"
	"vespawatch/pkg/cloudinary"
	"vespawatch/pkg/declination"
	"vespawatch/pkg/overlap"
	"vespawatch/pkg/proximity"
	"vespawatch/pkg/returnzone"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// snapshotPerLayer is how many recent reports of each kind a new map socket receives.
const snapshotPerLayer = 100

// Setup wires repositories, services and handlers. cloud may be nil; background
// work started here stops when ctx is done.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, model declination.Model, m *metrics.Collector) (*gin.Engine, error) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	calc, err := returnzone.NewCalculator(cfg.Geo.ReturnZone())
	if err != nil {
		return nil, err
	}
	resolver, err := overlap.NewResolver(cfg.Geo.Overlap())
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(ctx, time.Minute)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), m.Middleware())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging

	// Repositories
	userRepo := repository.NewUserRepository(db)
	hornetRepo := repository.NewHornetRepository(db)
	apiaryRepo := repository.NewApiaryRepository(db)
	nestRepo := repository.NewNestRepository(db)

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, userRepo)
	zoneSvc := service.NewZoneService(calc, declination.NewCorrector(model), m)
	mapSvc := service.NewMapService(hornetRepo, apiaryRepo, nestRepo, resolver, m)

	mapHub := ws.NewMapHub(func() ([]proximity.MapObject, error) {
		return mapSvc.Recent(snapshotPerLayer)
	})
	if cloud == nil {
		log.Printf("[cloudinary] photo upload disabled: set CLOUDINARY_* to enable")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	hornetHandler := handler.NewHornetHandler(hornetRepo, zoneSvc, mapHub)
	apiaryHandler := handler.NewApiaryHandler(apiaryRepo, mapHub)
	nestHandler := handler.NewNestHandler(nestRepo, mapHub, cloud, cfg.Cloudinary.Folder)
	zoneHandler := handler.NewZoneHandler(zoneSvc)
	mapHandler := handler.NewMapHandler(mapSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	rateMw := middleware.RateLimit(limiter)

	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateMw)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		// reads are public so the map can be shown before login
		pub := api.Group("")
		pub.Use(rateMw)
		{
			pub.GET("/hornets", hornetHandler.List)
			pub.GET("/hornets/:id", hornetHandler.Get)
			pub.GET("/hornets/:id/zone", hornetHandler.Zone)
			pub.GET("/apiaries", apiaryHandler.List)
			pub.GET("/apiaries/:id", apiaryHandler.Get)
			pub.GET("/nests", nestHandler.List)
			pub.GET("/nests/:id", nestHandler.Get)
			pub.POST("/zones", zoneHandler.Compute)
			pub.GET("/declination", zoneHandler.Declination)
			pub.POST("/map/click", mapHandler.Click)
		}

		authed := api.Group("")
		authed.Use(authMw, rateMw)
		{
			authed.POST("/hornets", hornetHandler.Create)
			authed.DELETE("/hornets/:id", hornetHandler.Delete)
			authed.POST("/apiaries", apiaryHandler.Create)
			authed.DELETE("/apiaries/:id", apiaryHandler.Delete)
			authed.POST("/nests", nestHandler.Create)
			authed.DELETE("/nests/:id", nestHandler.Delete)
			authed.POST("/nests/:id/photo", nestHandler.Photo)
			authed.POST("/nests/:id/destroy", middleware.RequireRole(domain.RoleAdmin, domain.RoleBeekeeper), nestHandler.Destroy)
		}
	}

	r.GET("/ws/map", ws.UpgradeMapWS(&cfg.JWT, mapHub))

	return r, nil
}
