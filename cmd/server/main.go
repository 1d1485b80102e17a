package main

import (
	"context"
	"errors"
	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/adapters/google"
	"itinerary-service/internal/adapters/render"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/api"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := obs.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// Postgres backs the travel-estimate cache and stored interests; without it
	// preferences live in memory and estimates are not cached.
	var (
		prefs       ports.PreferenceRepository = repositories.NewMemoryPreferenceRepository()
		travelCache ports.TravelEstimateCache
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		prefs = repositories.NewSQLPreferenceRepository(conn)
		travelCache = cache.NewSQLTravelCache(conn)
	} else {
		zap.L().Warn("DATABASE_URL not set; using in-memory preferences")
	}

	var placeCache ports.PlaceSearchCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zap.L().Warn("redis unreachable; place search cache disabled",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			placeCache = cache.NewRedisPlaceCache(rdb, cfg.SearchCacheTTL)
		}
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	places, err := google.NewPlacesProvider(cfg.PlacesKey, cfg.PlacesBaseURL, httpClient, placeCache, metrics)
	if err != nil {
		return err
	}
	directions, err := google.NewDirectionsProvider(cfg.DirectionsKey, cfg.DirectionsBaseURL, httpClient, travelCache, metrics)
	if err != nil {
		return err
	}

	recorder := render.NewRecorder()
	planner := services.NewPlanner(
		services.NewCandidateAggregator(places, cfg.SearchConcurrency),
		directions,
		prefs,
		recorder,
		metrics,
	)
	sessions := services.NewSessionManager(planner, recorder, metrics)

	router := api.NewRouter(api.Deps{
		Sessions: sessions,
		Prefs:    prefs,
		Views:    recorder,
		Metrics:  metrics,
	})

	// Timeouts leave room for a session start: one fan-out plus two directions calls.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zap.L().Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
