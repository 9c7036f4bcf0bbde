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

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/casesettle/internal/auth"
	"github.com/mmynk/casesettle/internal/authz"
	"github.com/mmynk/casesettle/internal/config"
	"github.com/mmynk/casesettle/internal/metrics"
	"github.com/mmynk/casesettle/internal/middleware"
	"github.com/mmynk/casesettle/internal/notify"
	"github.com/mmynk/casesettle/internal/service"
	"github.com/mmynk/casesettle/internal/storage/sqlite"
	"github.com/mmynk/casesettle/internal/workflow"
	"github.com/mmynk/casesettle/pkg/api/apiconnect"
	"github.com/mmynk/casesettle/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	// Setup structured logging
	logger := logging.Setup(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if cfg.Redis.Addr != "" {
		redisPub, err := notify.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			logger.Warn("Redis change feed unavailable, logging events instead", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisPub.Close()
			publisher = redisPub
			logger.Info("Publishing changes to Redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		}
	}

	recorder := metrics.New()
	opts := []workflow.Option{
		workflow.WithLogger(logger),
		workflow.WithPublisher(publisher),
		workflow.WithMetrics(recorder),
		workflow.WithDefaultCategory(cfg.Settlement.DefaultCategory),
		workflow.WithMismatchTolerance(cfg.Settlement.MismatchTolerance),
	}

	dir := authz.NewStoreDirectory(store)
	gate := authz.NewRosterGate(dir)
	ledger := workflow.NewLedger(store, gate, opts...)
	escalations := workflow.NewEscalations(store, store, gate, opts...)
	confirmations := workflow.NewConfirmations(store, ledger, dir, opts...)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store, cfg.IsAdminEmail)

	// Metrics wrap everything so rejected tokens are counted too.
	observe := connect.WithInterceptors(middleware.MetricsInterceptor(recorder))
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(recorder),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)
	public := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(ledger, confirmations, store, logger), protected))
	mux.Handle(apiconnect.NewEscalationServiceHandler(service.NewEscalationService(escalations, logger), protected))
	mux.Handle(apiconnect.NewDirectoryServiceHandler(service.NewDirectoryService(store, logger), protected))
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, logger), observe, public))
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Reconcile.Interval > 0 {
		reconciler := workflow.NewReconciler(store, escalations, opts...)
		go reconciler.Run(ctx, cfg.Reconcile.Interval)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
