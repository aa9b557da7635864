package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vespawatch/config"
	"vespawatch/internal/database"
	"vespawatch/internal/metrics"
	"vespawatch/internal/router"
	"vespawatch/pkg/cloudinary"
	"vespawatch/pkg/declination"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil && !errors.Is(err, cloudinary.ErrNotConfigured) {
		log.Fatalf("cloudinary: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	engine, err := router.Setup(ctx, cfg, db, cloud, declinationModel(&cfg.Declination), m)
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}

func declinationModel(cfg *config.DeclinationConfig) declination.Model {
	if cfg.Provider == "fixed" {
		log.Printf("[declination] using fixed declination %.2f°", cfg.FixedDeg)
		return declination.FixedModel(cfg.FixedDeg)
	}
	if cfg.NOAAKey == "" {
		log.Printf("[declination] DECLINATION_NOAA_KEY not set; NOAA lookups will likely be rejected")
	}
	return declination.NewNOAAModel(cfg.NOAAURL, cfg.NOAAKey, cfg.Model, cfg.Timeout)
}
