package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/app"
	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/observability/tracing"
	"github.com/mmynk/invoicer/internal/service"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/pkg/logging"
)

const serviceName = "invoicer"

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	if cfg.TokenKey == "" {
		return errors.New("TOKEN_KEY must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	stores, closeBackend, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load stores (run `invoicectl init` to create empty data files): %w", err)
	}
	defer closeBackend()
	logger.Info("Storage initialized", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	go reloadOnHangup(ctx, stores, logger)

	jwtManager := auth.NewJWTManager(cfg.TokenKey, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(stores.Users, cfg.HashPasswords, logger)
	engine := aggregate.New(stores.Invoices, stores.Clients, aggregate.WithLogger(logger))

	requireAuth := middleware.RequireAuth(jwtManager)
	logged := connect.WithInterceptors(middleware.LoggingInterceptor(logger))
	authenticated := connect.WithInterceptors(requireAuth, middleware.LoggingInterceptor(logger))

	mux := http.NewServeMux()

	authPath, authHandler := service.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, stores.Users, logger), requireAuth, logged)
	mux.Handle(authPath, authHandler)

	clientPath, clientHandler := service.NewClientServiceHandler(
		service.NewClientService(stores.Clients, engine, logger), authenticated)
	mux.Handle(clientPath, clientHandler)

	invoicePath, invoiceHandler := service.NewInvoiceServiceHandler(
		service.NewInvoiceService(stores.Invoices, stores.Clients, engine, logger), authenticated)
	mux.Handle(invoicePath, invoiceHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
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

// reloadOnHangup re-reads every store when the process gets SIGHUP, so a
// fixture reset takes effect without a restart.
func reloadOnHangup(ctx context.Context, stores *storage.Stores, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("SIGHUP received, reloading stores")
			if err := stores.Reload(ctx); err != nil {
				logger.Error("Reload failed", "error", err)
			}
		}
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Access-Token, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
