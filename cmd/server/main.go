package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go-gin-event-calendar/config"
	"go-gin-event-calendar/internal/cache"
	"go-gin-event-calendar/internal/database"
	"go-gin-event-calendar/internal/handler"
	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/queue"
	"go-gin-event-calendar/internal/repository"
	"go-gin-event-calendar/internal/service"
	"go-gin-event-calendar/internal/worker"
	"go-gin-event-calendar/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.Server.LogLevel)
	log := logger.WithComponent("main")
	defer logger.L.Sync()

	gin.SetMode(cfg.Server.Mode)

	loc, err := time.LoadLocation(cfg.Server.TimeZone)
	if err != nil {
		log.Fatal("Invalid time zone", zap.String("time_zone", cfg.Server.TimeZone), zap.Error(err))
	}

	if cfg.Database.Migrate {
		if err := database.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// repositories
	txManager := repository.NewTxManager(pool)
	eventRepo := repository.NewEventRepository(pool)
	participationRepo := repository.NewParticipationRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	feedCache := cache.NewFeedCache(rdb, cfg.Feed.CacheTTL)

	var noticeQueue queue.NoticeQueue
	switch cfg.Notification.Queue {
	case "memory":
		noticeQueue = queue.NewMemoryNoticeQueue(1000)
	default:
		hostname, _ := os.Hostname()
		noticeQueue, err = queue.NewRedisStreamNoticeQueue(rdb, hostname, nil)
		if err != nil {
			log.Fatal("Failed to initialize notice queue", zap.Error(err))
		}
	}

	translator := i18n.NewTranslator(cfg.Server.DefaultLocale)

	// services
	eventService := service.NewEventService(txManager, eventRepo, participationRepo, userRepo, feedCache, loc, nil)
	participationService := service.NewParticipationService(txManager, eventRepo, participationRepo, noticeQueue, feedCache, nil)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, translator, cfg.Server.DefaultLocale, nil)

	// background workers
	if err := worker.NewNoticeWorker(notificationService, noticeQueue).Start(ctx); err != nil {
		log.Fatal("Failed to start notice worker", zap.Error(err))
	}
	if err := worker.NewRetentionJob(notificationService, cfg.Notification.Retention).Start(ctx, cfg.Notification.RetentionSchedule); err != nil {
		log.Fatal("Failed to start retention job", zap.Error(err))
	}

	handler.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Viewer(cfg.Auth.JWTSecret))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	handler.NewEventHandler(eventService, translator, loc).RegisterRoutes(router)
	handler.NewParticipationHandler(participationService, translator).RegisterRoutes(router)
	handler.NewNotificationHandler(notificationService, translator).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
