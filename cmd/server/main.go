package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"install-scheduling-service/internal/adapters/cache"
	"install-scheduling-service/internal/adapters/events"
	"install-scheduling-service/internal/adapters/repositories"
	"install-scheduling-service/internal/adapters/routing"
	"install-scheduling-service/internal/api"
	"install-scheduling-service/internal/config"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/platform/db"
	"install-scheduling-service/internal/platform/obs"
	"install-scheduling-service/internal/ports"
	"install-scheduling-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (postgres, routing API, redis) behind ports and
// starts the HTTP server.
func main() {
	log := obs.Logger("server")

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("load config")
	}

	metrics.RegisterDefault()

	database, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	// Schema creation is idempotent; seeding stays in dbtool.
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	// Routing calls go through a persistent travel cache so repeated
	// coordinate pairs never hit the external API twice.
	travelCache := cache.NewSQLTravelCache(database)
	estimator, err := routing.NewEstimator(routing.Config{
		APIKey:      cfg.Routing.APIKey,
		BaseURL:     cfg.Routing.BaseURL,
		Profile:     cfg.Routing.Profile,
		Timeout:     cfg.Routing.Timeout,
		AvgSpeedKmh: cfg.Routing.AvgSpeedKmh,
	}, travelCache, obs.Logger("routing"))
	if err != nil {
		log.Fatal().Err(err).Msg("build routing estimator")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher ports.EventPublisher = events.NopPublisher{}
	if cfg.Redis.URL != "" {
		redisPub, err := events.NewRedisPublisher(ctx, cfg.Redis.URL, obs.Logger("events"))
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer redisPub.Close()
		publisher = redisPub
	}

	orderRepo := repositories.NewPostgresOrderRepository(database)
	refRepo := repositories.NewPostgresReferenceRepository(database)
	slotRepo := repositories.NewPostgresTimeSlotRepository(database)

	inventory := services.NewSlotInventory(slotRepo, obs.Logger("slots"))
	nonOperating, err := cfg.NonOperatingDays()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve non-operating days")
	}
	inventory.NonOperatingDays = make(map[time.Weekday]bool, len(nonOperating))
	for _, d := range nonOperating {
		inventory.NonOperatingDays[d] = true
	}

	// Keep the slot inventory topped up before the first run.
	if created, err := inventory.EnsureSlots(ctx, cfg.Slots.DaysAhead); err != nil {
		log.Fatal().Err(err).Msg("ensure slot inventory")
	} else if created > 0 {
		log.Info().Int("created", created).Msg("slot inventory topped up")
	}

	scheduler := &services.Scheduler{
		Orders:            orderRepo,
		Buildings:         refRepo,
		Products:          refRepo,
		Slots:             slotRepo,
		Estimator:         estimator,
		Events:            publisher,
		Depot:             cfg.DepotLocation(),
		MatrixConcurrency: cfg.Routing.MatrixParallel,
		Log:               obs.Logger("scheduler"),
	}
	rescheduler := services.NewRescheduler(orderRepo, slotRepo, refRepo, publisher, obs.Logger("emergency"))

	router := api.NewRouter(scheduler, inventory, rescheduler, orderRepo, cfg.Slots.DaysAhead, obs.Logger("http"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
