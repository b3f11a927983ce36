package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellportal/config"
	"wellportal/database"
	journalRepo "wellportal/database/repository/journal"
	"wellportal/handlers"
	"wellportal/middleware"
	"wellportal/routes"
	"wellportal/services/apiclient"
	"wellportal/services/auth"
	"wellportal/services/availability"
	"wellportal/services/booking"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"
	"wellportal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	useRedis := cfg.SessionStore == "redis"
	if useRedis {
		if err := utils.InitRedis(); err != nil {
			logger.Sugar().Fatalf("main: failed to connect to redis: %v", err)
		}
		defer utils.CloseRedis()
	}

	// Booking journal: MongoDB when configured, memory otherwise.
	var journal journalRepo.BookingJournalRepository
	connected, err := database.InitDB()
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if connected {
		journal = journalRepo.NewMongoJournalRepo()
		if err := journalRepo.EnsureIndexes(journal); err != nil {
			logger.Warn("main: journal indexes not ensured", zap.Error(err))
		}
	} else {
		logger.Info("main: DATABASE_URL not set, booking journal kept in memory")
		journal = journalRepo.NewMemoryJournalRepo()
	}

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout(), logger)

	// Session token store and notice inbox.
	var (
		sessions tokenstore.Provider
		notices  notify.Box
		sweepers []interface {
			Run(ctx context.Context, interval time.Duration)
		}
	)
	if useRedis {
		sealer, err := tokenstore.NewSealer(cfg.SessionSecret)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to build session sealer: %v", err)
		}
		if cfg.SessionSecret == "" {
			logger.Warn("main: SESSION_SECRET not set, sessions will not survive a restart")
		}
		sessions = tokenstore.NewRedisProvider(utils.SessionCacheClient, sealer, cfg.SessionTTL(), logger)
		notices = notify.NewRedisBox(utils.NoticeCacheClient, notify.DefaultCapacity, utils.NoticeTTL)
	} else {
		memSessions := tokenstore.NewMemoryProvider(cfg.SessionTTL())
		memNotices := notify.NewMemoryBox(notify.DefaultCapacity, utils.NoticeTTL)
		sweepers = append(sweepers, memSessions, memNotices)
		sessions, notices = memSessions, memNotices
	}

	// services.
	authService := auth.NewService(api, logger)
	guard := auth.NewGuard(logger)
	resolver := availability.NewResolver(api, logger)
	calendars := availability.NewCalendars(resolver, cfg.CalendarIdle(), logger)
	windows := availability.NewWindows(api, logger)
	workflow := booking.NewWorkflow(api, journal, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go calendars.Run(ctx, time.Minute)
	for _, s := range sweepers {
		go s.Run(ctx, time.Minute)
	}

	var redisClients []*redis.Client
	if useRedis {
		redisClients = []*redis.Client{utils.SessionCacheClient, utils.NoticeCacheClient}
	}
	utils.StartHealthMonitor(ctx, time.Minute, redisClients, database.MongoClient, api)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	router.Use(middleware.SessionCookie(cfg.CookieSecure || config.IsProduction(), int(cfg.SessionTTL().Seconds())))

	handlerBundle := &handlers.HandlerBundle{
		Guard:    guard,
		Sessions: sessions,
		Notices:  notices,
		WebDir:   cfg.WebDir,

		Auth:         handlers.NewAuthHandler(authService, sessions, calendars, notices),
		Calendar:     handlers.NewCalendarHandler(calendars, workflow, sessions, notices),
		SessionList:  handlers.NewSessionsHandler(workflow, sessions, notices),
		Availability: handlers.NewAvailabilityHandler(windows, resolver, sessions, notices),
		Admin:        handlers.NewAdminHandler(journal),
	}

	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
