package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/monitoring"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
	"github.com/opencircle-app/opencircle/backend/internal/router"
	"github.com/opencircle-app/opencircle/backend/pkg/config"
	"github.com/opencircle-app/opencircle/backend/pkg/redislock"
	"github.com/opencircle-app/opencircle/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	// Metrics
	registry := prometheus.NewRegistry()
	monitoring.Register(registry)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		log.Infof("Metrics listening on :%s", cfg.MetricsPort)
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	// Background reconciliation of like counters against membership sets
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reconciler := interactions.NewReconciler(
		repositories.NewMongoUserRepository(mongoDB),
		repositories.NewMongoPostRepository(mongoDB),
		repositories.NewMongoCommentRepository(mongoDB),
		redislock.New(db.Redis),
		cfg.ReconcileInterval,
	)
	go reconciler.Run(ctx)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, mongoDB)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
