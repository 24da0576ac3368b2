package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/adapter/audio"
	"github.com/srgjo27/partner_dispatch/internal/adapter/backend"
	"github.com/srgjo27/partner_dispatch/internal/adapter/handler"
	"github.com/srgjo27/partner_dispatch/internal/adapter/livechannel"
	"github.com/srgjo27/partner_dispatch/internal/adapter/location"
	"github.com/srgjo27/partner_dispatch/internal/adapter/notification"
	"github.com/srgjo27/partner_dispatch/internal/adapter/push"
	"github.com/srgjo27/partner_dispatch/internal/adapter/repository/postgres"
	redisrepo "github.com/srgjo27/partner_dispatch/internal/adapter/repository/redis"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/srgjo27/partner_dispatch/internal/platform/cache"
	"github.com/srgjo27/partner_dispatch/internal/platform/config"
	"github.com/srgjo27/partner_dispatch/internal/platform/database"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cache.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	bookingCache := postgres.NewBookingRepository(db)
	offerJournal := postgres.NewOfferJournalRepository(db)
	offerSnapshots := redisrepo.NewOfferSnapshotRepository(redisClient, cfg.Offers.SnapshotTTL)
	sessionRepo := redisrepo.NewSessionRepository(redisClient)

	notices := services.NewNoticeBoard(50)

	// The backend client and the session need each other; the token source is
	// resolved lazily.
	var session *services.SessionService
	tokens := ports.TokenSourceFunc(func(ctx context.Context) (string, error) {
		return session.Token(ctx)
	})
	api := backend.NewClient(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, tokens, log)
	session = services.NewSessionService(sessionRepo, api, notices, log)
	api.OnUnauthorized(session.Invalidate)

	live := livechannel.NewClient(livechannel.Config{URL: cfg.Live.URL}, session, log)
	lastKnown := location.NewLastKnown(cfg.Location.MaxAge)

	presenter, err := notification.NewTelegramPresenter(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.DismissAfter, log)
	if err != nil {
		log.Error("failed to start telegram presenter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ringer := services.NewRinger(audio.NewCommandPlayer(cfg.Ringer.Command, cfg.Ringer.Args, log), log)
	store := services.NewIncomingOfferStore()
	intake := services.NewOfferIntake(store, ringer, presenter, offerSnapshots, offerJournal, notices,
		services.IntakeConfig{Buffer: cfg.Offers.Buffer, OfferTTL: cfg.Offers.TTL}, log)

	poller := services.NewPaymentPoller(api, services.PollConfig{
		Interval: cfg.Payments.PollInterval,
		Timeout:  cfg.Payments.PollTimeout,
	}, log)
	tracker := services.NewBookingTracker(api, api, live, bookingCache, notices, poller, log)
	availability := services.NewAvailabilityService(api, live, log)
	connection := services.NewConnectionManager(live, availability, session, cfg.Live.ReconnectDelay, log)
	connection.OnUnauthorized(session.Invalidate)

	coordinator := services.NewActionCoordinator(store, ringer, api, live, connection, lastKnown, presenter,
		offerSnapshots, offerJournal, notices, tracker, log)

	events := services.NewLiveEventRouter(intake, coordinator, tracker, log)
	live.SetHandler(events.Handle)

	session.OnInvalidate(connection.Disconnect)
	session.OnInvalidate(coordinator.Reset)
	session.OnInvalidate(func(context.Context) { tracker.Close() })
	session.OnInvalidate(func(context.Context) { availability.Forget() })

	if err := intake.Restore(ctx); err != nil {
		log.Warn("failed to restore offer snapshot", slog.String("error", err.Error()))
	}

	go intake.Run(ctx)
	go connection.Supervise(ctx)
	go presenter.Listen(ctx, coordinator, intake)

	if err := connection.EnsureConnected(ctx); err != nil {
		log.Info("live channel not connected at startup", slog.String("error", err.Error()))
	}

	router := handler.NewRouter(handler.RouterConfig{AllowedOrigins: cfg.Server.AllowedOrigins}, log,
		handler.NewIncomingHandler(store, coordinator, notices),
		handler.NewBookingHandler(tracker),
		handler.NewPartnerHandler(session, availability, connection, lastKnown, log),
		push.NewHandler(intake, log),
	)

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
		// Event streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info("server starting", slog.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server startup failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	tracker.Close()
	ringer.Close()
	if err := live.Close(); err != nil {
		log.Warn("failed to close live channel", slog.String("error", err.Error()))
	}

	log.Info("server exiting")
}
