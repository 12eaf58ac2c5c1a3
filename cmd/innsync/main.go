package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"innsync/internal/app/bookings"
	"innsync/internal/app/catalog"
	"innsync/internal/app/schedule"
	appsync "innsync/internal/app/sync"
	"innsync/internal/infra/broker/kafka"
	"innsync/internal/infra/cache"
	"innsync/internal/infra/config"
	mongodb "innsync/internal/infra/db/mongo"
	ginserver "innsync/internal/infra/http/gin"
	"innsync/internal/infra/obs"
	"innsync/internal/infra/pms"
	"innsync/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := obs.NewLogger(getenv("APP_ENV", "dev"), getenv("LOG_LEVEL", "info"))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	readiness := func() error { return nil }

	var repos catalog.Repositories
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo close failed", "error", err)
			}
		}()
		repos = catalog.Repositories{
			Hotels:      mongodb.NewHotelRepository(client.DB),
			RoomTypes:   mongodb.NewRoomTypeRepository(client.DB),
			EventSpaces: mongodb.NewEventSpaceRepository(client.DB),
			Promotions:  mongodb.NewPromotionRepository(client.DB),
		}
		readiness = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("catalog storage ready", "mode", "mongo", "database", cfg.MongoDB)
	default:
		repos = catalog.Repositories{
			Hotels:      memory.NewHotelRepository(),
			RoomTypes:   memory.NewRoomTypeRepository(),
			EventSpaces: memory.NewEventSpaceRepository(),
			Promotions:  memory.NewPromotionRepository(),
		}
		logger.Info("catalog storage ready", "mode", "memory")
	}

	var snapshots appsync.SnapshotStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		snapshots = cache.NewSnapshotCache(redisClient, cfg.SnapshotTTL)
		logger.Info("snapshot cache ready", "addr", cfg.RedisAddr)
	}

	var publisher appsync.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafka.AvailabilityPublisher{Producer: producer, Topic: cfg.KafkaTopic}
		logger.Info("availability events ready", "topic", cfg.KafkaTopic)
	}

	pmsClient := pms.NewClient(pms.Options{
		BaseURL: cfg.PMSBaseURL,
		APIKey:  cfg.PMSAPIKey,
		Timeout: cfg.PMSTimeout,
		Logger:  logger,
	})

	catalogSvc := catalog.NewService(repos, logger)
	bookingSvc := bookings.NewService(pmsClient, logger)
	engine := appsync.NewEngine(appsync.Config{
		PMS:              pmsClient,
		Capacity:         catalogSvc,
		Snapshots:        snapshots,
		Publisher:        publisher,
		Logger:           logger,
		ChunkDays:        cfg.ChunkDays,
		MaxHorizonMonths: cfg.MaxHorizonMonths,
	})

	reconciler := schedule.NewReconciler(engine, logger, cfg.ResyncTimeout)
	if err := reconciler.Start(cfg.ResyncSpec); err != nil {
		logger.Error("reconciler start failed", "error", err, "spec", cfg.ResyncSpec)
		os.Exit(1)
	}
	defer reconciler.Stop()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: readiness}, ginserver.Handlers{
		Calendar: ginserver.CalendarHandler{Engine: engine, Now: time.Now},
		Booking:  ginserver.BookingHandler{Bookings: bookingSvc},
		Catalog:  ginserver.CatalogHandler{Catalog: catalogSvc},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
