package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ordering-system/internal/api/handlers"
	"ordering-system/internal/api/middleware"
	"ordering-system/internal/config"
	"ordering-system/internal/domain"
	"ordering-system/internal/infrastructure/leader"
	"ordering-system/internal/infrastructure/mysql"
	"ordering-system/internal/infrastructure/redis"
	"ordering-system/internal/infrastructure/websocket"
	"ordering-system/internal/services"
	"ordering-system/pkg/logger"
	"ordering-system/pkg/utils"
)

func main() {
	log := logger.New()
	log.Info("Starting realtime notification service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log.Info("Loaded configuration", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize MySQL (the ordering web app's database, read-only here)
	db := utils.InitializeMysql(cfg, log, ctx)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	orderStore := mysql.NewMySQLOrderStore(db)

	// Initialize the group broker and its service-facing adapter
	broker := websocket.NewBroker(log)
	notifier := websocket.NewGroupNotifier(broker)

	// Optional Redis bridge: cross-instance fan-out plus leader election
	var (
		publisher      domain.EventPublisher
		leaderElection domain.LeaderElection
	)
	if cfg.Redis.Enabled {
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("Connected to Redis", "address", cfg.Redis.Address)

		publisher = redis.NewEventPublisher(rdb, cfg.Instance.ID)
		leaderElection = leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

		subscriber := redis.NewRedisEventSubscriber(rdb, log)
		eventListener := services.NewEventListener(broker, cfg.Instance.ID, log)
		go func() {
			if err := eventListener.Start(context.Background(), subscriber); err != nil &&
				!errors.Is(err, context.Canceled) {
				log.Error("Event listener stopped", "error", err)
			}
		}()

		go func() {
			for {
				became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
				if err != nil {
					log.Error("Failed to attempt leadership", "error", err)
					time.Sleep(5 * time.Second)
					continue
				}
				if became {
					log.Info("Became refresh leader", "instance_id", cfg.Instance.ID)
				}
				time.Sleep(10 * time.Second)
			}
		}()
	}

	// Initialize the notification service and the connection gateway
	notificationService := services.NewNotificationService(orderStore, notifier, publisher, log)
	wsHandler := websocket.NewWebSocketHandler(notificationService, broker, log)

	// Periodic owner-count refresh
	var refreshScheduler *services.CountRefreshScheduler
	if cfg.Notifications.RefreshEnabled {
		refreshScheduler = services.NewCountRefreshScheduler(
			notificationService,
			leaderElection,
			cfg.Instance.ID,
			cfg.Notifications.RefreshSpec,
			log,
		)
		go func() {
			if err := refreshScheduler.Start(context.Background()); err != nil {
				log.Error("Failed to start refresh scheduler", "error", err)
			}
		}()
	}

	// WebSocket routes
	router := mux.NewRouter()
	router.Use(middleware.CORS)

	router.HandleFunc("/ws/print", wsHandler.HandlePrint)
	router.HandleFunc("/ws/notifications", wsHandler.HandleOwnerNotifications)
	router.HandleFunc("/ws/customer-notifications", wsHandler.HandleCustomerNotifications)
	router.HandleFunc("/ws/delivery-fee/owner", wsHandler.HandleOwnerFee)
	router.HandleFunc("/ws/delivery-fee/customer", wsHandler.HandleCustomerFee)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	wsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting websocket server", "address", wsServer.Addr)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("WebSocket server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Internal REST API for the ordering web app's triggers
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())

	notificationHandler := handlers.NewNotificationHandler(notificationService, log)

	api := e.Group("/api/v1")
	api.POST("/notifications/refresh", notificationHandler.RefreshCounts)
	api.POST("/customers/:email/notifications", notificationHandler.NotifyCustomer)
	api.POST("/print-jobs", notificationHandler.SendPrintJob)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "realtime-notifications",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	apiAddr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	go func() {
		log.Info("Starting API server", "address", apiAddr)
		if err := e.Start(apiAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("API server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down realtime notification service...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(); err != nil {
			log.Error("Failed to stop refresh scheduler", "error", err)
		}
	}
	if leaderElection != nil {
		if err := leaderElection.ReleaseLeadership(ctx, cfg.Instance.ID); err != nil {
			log.Error("Failed to release leadership", "error", err)
		}
	}

	if err := wsServer.Shutdown(ctx); err != nil {
		log.Error("WebSocket server forced to shutdown", "error", err)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.Error("API server forced to shutdown", "error", err)
	}

	log.Info("Realtime notification service stopped")
}
