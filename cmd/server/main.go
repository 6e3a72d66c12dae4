// Package main runs the webinar marketing site API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aarogya-webinar/backend/config"
	"github.com/aarogya-webinar/backend/internal/auth"
	"github.com/aarogya-webinar/backend/internal/bookings"
	"github.com/aarogya-webinar/backend/internal/middleware"
	"github.com/aarogya-webinar/backend/internal/models"
	"github.com/aarogya-webinar/backend/internal/payments"
	"github.com/aarogya-webinar/backend/internal/realtime"
	"github.com/aarogya-webinar/backend/internal/schedule"
	"github.com/aarogya-webinar/backend/internal/testimonials"
	"github.com/aarogya-webinar/backend/pkg/database"
	"github.com/aarogya-webinar/backend/pkg/queue"
	"github.com/aarogya-webinar/backend/pkg/redis"
	"github.com/aarogya-webinar/backend/pkg/response"
	"github.com/aarogya-webinar/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			PhotosBucket:    cfg.AWS.PhotosBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	// Admin sessions
	tokenService := auth.NewTokenService(cfg.Session.Secret, cfg.Session.TTLMinutes)
	sessionStore := auth.NewRedisSessionStore(rdb.Client)
	authHandler := auth.NewHandler(cfg.Admin, tokenService, sessionStore, logger)
	requireAdmin := middleware.RequireAdmin(tokenService, sessionStore)

	// Live admin booking feed
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Webinar schedule
	scheduleRepo := schedule.NewRepository(pool)
	scheduleHandler := schedule.NewHandler(scheduleRepo, logger)

	// Testimonials (general + pcos collections)
	testimonialRepo := testimonials.NewRepository(pool)
	var photos testimonials.PhotoStore
	if s3Client != nil {
		photos = s3Client
	}
	testimonialHandler := testimonials.NewHandler(testimonialRepo, photos, logger)

	// Payments
	gateway := payments.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, logger)
	paymentHandler := payments.NewHandler(gateway, cfg.Booking.DefaultCurrency, logger)

	// Bookings + confirmation email queue
	jobQueue := queue.NewQueue(rdb.Client, logger)
	bookingRepo := bookings.NewRepository(pool)
	bookingHandler := bookings.NewHandler(bookingRepo, gateway, hub, jobQueue, cfg.Booking.WhatsAppGroupLink, logger)

	sessionValidate := func(token string) (username string, err error) {
		claims, err := tokenService.Validate(token)
		if err != nil {
			return "", err
		}
		live, err := sessionStore.Exists(context.Background(), claims.ID)
		if err != nil {
			return "", err
		}
		if !live {
			return "", auth.ErrInvalidToken
		}
		return claims.Username, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	{
		// Admin session
		api.POST("/admin/login", authHandler.Login)
		api.POST("/admin/logout", requireAdmin, authHandler.Logout)

		// Webinar schedule
		api.GET("/webinars", scheduleHandler.Get)
		api.POST("/webinars", requireAdmin, scheduleHandler.Upsert)

		// Testimonials: general and pcos collections share one handler
		api.GET("/testimonials", testimonialHandler.List(models.CategoryGeneral))
		api.POST("/testimonials", testimonialHandler.Create(models.CategoryGeneral))
		api.PUT("/testimonials/:id", requireAdmin, testimonialHandler.Update(models.CategoryGeneral))
		api.DELETE("/testimonials/:id", requireAdmin, testimonialHandler.Delete(models.CategoryGeneral))

		api.GET("/pcos", testimonialHandler.List(models.CategoryPCOS))
		api.POST("/pcos", testimonialHandler.Create(models.CategoryPCOS))
		api.PUT("/pcos/:id", requireAdmin, testimonialHandler.Update(models.CategoryPCOS))
		api.DELETE("/pcos/:id", requireAdmin, testimonialHandler.Delete(models.CategoryPCOS))

		// Payments + bookings
		api.POST("/create-order", paymentHandler.CreateOrder)
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings", requireAdmin, bookingHandler.List)
		api.PUT("/bookings/:id/pay", requireAdmin, bookingHandler.MarkPaid)
		api.POST("/verify-payment", bookingHandler.VerifyPayment)
	}

	// WebSocket (token in query; no Authorization header on ws connects)
	router.GET("/ws", realtime.ServeWS(hub, logger, sessionValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
