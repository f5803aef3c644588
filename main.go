package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/tannaro-api/controllers"
	"github.com/Kariqs/tannaro-api/initializers"
	"github.com/Kariqs/tannaro-api/routes"
	"github.com/Kariqs/tannaro-api/services"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const uploadURLPrefix = "/uploads/products"

func main() {
	cfg := initializers.LoadEnv()
	logger := initializers.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg initializers.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := initializers.ConnectToDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err := initializers.SyncDatabase(ctx, store, logger); err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, admin login is disabled")
	}
	auth := services.NewAuthService(store, cfg.JWTSecret, cfg.AdminTokenTTL, logger)
	if err := initializers.SeedAdmin(ctx, cfg, auth, logger); err != nil {
		logger.Error("failed to seed admin", "error", err)
	}

	storeInfo := utils.StoreInfo{Name: cfg.StoreName, SupportEmail: cfg.SupportEmail, SupportPhone: cfg.SupportPhone}
	mailer := utils.NewSMTPMailer(utils.MailConfig{
		Host:            cfg.SMTPHost,
		Port:            cfg.SMTPPort,
		Username:        cfg.SMTPEmail,
		Password:        cfg.SMTPPassword,
		SenderName:      cfg.StoreName,
		ConnectTimeout:  cfg.SMTPTimeout,
		GreetingTimeout: cfg.SMTPTimeout,
		SocketTimeout:   cfg.SMTPTimeout,
	})
	if !mailer.HasCredentials() {
		logger.Warn("SMTP_EMAIL or SMTP_PASSWORD is not set, order invoices will not be sent")
	}
	invoices := utils.NewInvoiceDispatcher(mailer, storeInfo, logger)

	var images utils.ImageStore = &utils.LocalImageStore{Dir: cfg.UploadDir, URLPrefix: uploadURLPrefix}
	if cfg.UploadBucket != "" {
		s3Store, err := utils.NewS3ImageStore(ctx, cfg.UploadBucket)
		if err != nil {
			return err
		}
		images = s3Store
	}

	controller := &controllers.Controller{
		Orders:     services.NewOrderService(store, invoices, logger),
		Stats:      services.NewStatsService(store, logger),
		Catalog:    services.NewCatalogService(store, logger),
		Auth:       auth,
		Users:      services.NewUserService(store, logger),
		Limiter:    services.NewLoginLimiter(initializers.LoginAttempts(cfg, store, logger), cfg.LoginRateLimit, cfg.LoginRateWindow, logger),
		Invoices:   invoices,
		Images:     images,
		Store:      storeInfo,
		Production: cfg.IsProduction(),
		Log:        logger,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Logger(), gin.Recovery())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.MaxMultipartMemory = utils.MaxImageSize
	if cfg.UploadBucket == "" {
		server.Static(uploadURLPrefix, cfg.UploadDir)
	}
	routes.Register(server, controller)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
