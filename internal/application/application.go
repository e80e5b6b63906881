package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/psds-microservice/classroom-service/internal/config"
	"github.com/psds-microservice/classroom-service/internal/database"
	"github.com/psds-microservice/classroom-service/internal/ecpay"
	"github.com/psds-microservice/classroom-service/internal/handler"
	"github.com/psds-microservice/classroom-service/internal/router"
	"github.com/psds-microservice/classroom-service/internal/service"
	"github.com/psds-microservice/classroom-service/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// API is the HTTP + SSE/WebSocket API application.
type API struct {
	cfg    *config.Config
	srv    *http.Server
	store  store.RecordStore
	hub    *service.BroadcastHub
	logger *zap.Logger
}

// NewAPI creates the API application: validates config, opens the record store, builds router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	st, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	retry := service.RetryPolicy{Attempts: cfg.ReadRetryAttempts, Delay: cfg.ReadRetryDelay}
	hub := service.NewBroadcastHub(logger)
	readinessSvc := service.NewReadinessService(st, hub, retry, logger)
	windowSvc := service.NewSessionWindowService(st, hub, retry, logger)
	paymentSvc := service.NewPaymentService(ecpay.NewClient(ecpay.Config{
		MerchantID:    cfg.ECPay.MerchantID,
		HashKey:       cfg.ECPay.HashKey,
		HashIV:        cfg.ECPay.HashIV,
		CheckoutURL:   cfg.ECPay.CheckoutURL,
		ReturnURL:     cfg.ECPay.ReturnURL,
		ClientBackURL: cfg.ECPay.ClientBackURL,
	}), st, logger)

	stream := handler.NewStreamHandler(hub, handler.StreamConfig{
		PingInterval:    cfg.StreamPingInterval,
		FallbackTimeout: cfg.StreamFallbackTimeout,
		BufferSize:      cfg.StreamBufferSize,
		ReadBufferSize:  cfg.WSReadBufferSize,
		WriteBufferSize: cfg.WSWriteBufferSize,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	}, logger)

	r := router.New(
		handler.NewReadinessHandler(readinessSvc),
		handler.NewSessionWindowHandler(windowSvc),
		stream,
		handler.NewPaymentHandler(paymentSvc),
		handler.NewHealthHandler(hub),
		cfg.CORSAllowedOrigins,
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// ReadTimeout only bounds reading the request, so streams outlive it.
		// No WriteTimeout: it would cut stream responses that stay open for the whole class.
		IdleTimeout: 60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, store: st, hub: hub, logger: logger}, nil
}

// NewLogger builds the zap logger: development config in development, production otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.AppEnv == "development" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// OpenStore opens the record backend selected by STORE_BACKEND.
func OpenStore(cfg *config.Config, logger *zap.Logger) (store.RecordStore, error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		return store.NewFileStore(cfg.DataDir, logger)
	case config.StoreBolt:
		return store.OpenBolt(cfg.BoltPath)
	case config.StorePostgres:
		if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.Open(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		return store.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	defer func() { _ = a.logger.Sync() }()

	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s (store: %s)", addr, a.cfg.StoreBackend)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Readiness:     %s/api/classroom/readiness?uuid=", base)
	log.Printf("  Session:       %s/api/classroom/session?uuid=", base)
	log.Printf("  Stream (SSE):  %s/api/classroom/stream?uuid=", base)
	log.Printf("  WebSocket:     ws://%s:%s/ws/classroom?uuid=", host, a.cfg.HTTPPort)
	log.Printf("  ECPay:         %s/api/payments/ecpay/callback", base)

	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = a.store.Close()
		return fmt.Errorf("http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.srv.Shutdown(shutdownCtx)
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Warn("store close failed", zap.Error(cerr))
	}
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
