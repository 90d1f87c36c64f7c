package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/config"
	"rideshare/pkg/api"
	"rideshare/pkg/bot"
	"rideshare/pkg/calendar"
	"rideshare/pkg/genai"
	"rideshare/pkg/logger"
	"rideshare/pkg/maps"
	"rideshare/service"
	"rideshare/storage"
	"rideshare/storage/memory"
	"rideshare/storage/postgres"
	"rideshare/storage/redis"
)

const genaiCacheTTL = 24 * time.Hour

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	if err := run(cfg, log); err != nil {
		os.Exit(1)
	}
}

// run owns every resource so deferred closes flush snapshots before exit.
func run(cfg config.Config, log logger.ILogger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Snapshot backend and the in-memory collections on top of it
	blob, cache, err := openBlob(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open snapshot storage", logger.String("driver", cfg.StorageDriver), logger.Error(err))
		return err
	}

	store, err := memory.New(ctx, blob, memory.Options{Seed: cfg.SeedMockData}, log)
	if err != nil {
		log.Error("Failed to load collections", logger.Error(err))
		return err
	}
	defer store.Close()

	// 4. Collaborators
	notifier, err := calendar.New(ctx, calendar.Config{
		CalendarID:      cfg.GoogleCalendarID,
		CredentialsFile: cfg.GoogleCredentialsFile,
		AccessToken:     cfg.GoogleAccessToken,
		TimeZone:        cfg.GoogleCalendarTimeZone,
	}, log)
	if err != nil {
		log.Error("Failed to initialize calendar sync", logger.Error(err))
		return err
	}

	enricher := genai.New(genai.Config{
		APIKey:  cfg.GenAIAPIKey,
		Model:   cfg.GenAIModel,
		BaseURL: cfg.GenAIBaseURL,
		Cache:   cache,
	}, log)
	staticMaps := maps.NewStatic(cfg.MapsAPIKey)

	// 5. Services
	opts := service.OptionsFromConfig(cfg)
	opts.Notifiers = []service.BookingNotifier{notifier}
	svc, err := service.New(ctx, store, opts, log)
	if err != nil {
		log.Error("Failed to initialize services", logger.Error(err))
		return err
	}
	defer svc.Close()

	log.Info("🚀 RideShare backend is initializing...",
		logger.String("storage", cfg.StorageDriver),
		logger.Bool("genai", enricher.Enabled()),
		logger.Bool("calendar", notifier.Enabled()),
	)

	// 6. HTTP API
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(svc, enricher, staticMaps, log)
	go func() {
		if err := api.Run(ctx, cfg.AppPort, router, log); err != nil {
			log.Error("HTTP API stopped", logger.Error(err))
		}
	}()

	// 7. Telegram bots
	bots, err := startBots(&cfg, func(t bot.BotType) (*bot.Bot, error) {
		return bot.New(t, &cfg, svc, enricher, staticMaps, log)
	}, log)
	if err != nil {
		return err
	}

	// 8. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Stopping bots and shutting down...")
	for _, b := range bots {
		b.Stop()
	}
	cancel()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := store.Flush(flushCtx); err != nil {
		log.Error("Final snapshot flush failed", logger.Error(err))
	}
	return nil
}

// openBlob picks the snapshot backend. The second value caches generated
// text; only Redis offers one, with expiry.
func openBlob(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IBlobStorage, genai.Cache, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rs, err := redis.New(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Namespace("cache:", genaiCacheTTL), nil
	case config.StoragePostgres:
		pg, err := postgres.New(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return pg, nil, nil
	default:
		return memory.NewBlob(), nil, nil
	}
}

// botBuilder creates one bot of the given type.
type botBuilder func(bot.BotType) (*bot.Bot, error)

func startBots(cfg *config.Config, build botBuilder, log logger.ILogger) ([]*bot.Bot, error) {
	var passengerBot, driverAdminBot *bot.Bot
	var err error

	if cfg.TelegramBotToken != "" {
		passengerBot, err = build(bot.BotTypePassenger)
		if err != nil {
			log.Error("Failed to initialize passenger bot", logger.Error(err))
			return nil, err
		}
	}
	if cfg.AdminBotToken != "" {
		driverAdminBot, err = build(bot.BotTypeDriverAdmin)
		if err != nil {
			log.Error("Failed to initialize driver/admin bot", logger.Error(err))
			return nil, err
		}
	}

	// Peer linking for cross-bot notifications
	if passengerBot != nil && driverAdminBot != nil {
		passengerBot.Peer = driverAdminBot
		driverAdminBot.Peer = passengerBot
	}

	var bots []*bot.Bot
	for _, b := range []*bot.Bot{passengerBot, driverAdminBot} {
		if b == nil {
			continue
		}
		bots = append(bots, b)
		go b.Start()
	}
	if len(bots) == 0 {
		log.Warning("No Telegram tokens configured, running HTTP API only")
	}
	return bots, nil
}
