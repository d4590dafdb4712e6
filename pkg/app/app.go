package app

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"storefront/internal/mockapi"
	"storefront/pkg/httpapi"
	"storefront/pkg/shopapi"
	"storefront/pkg/storefront"
	"storefront/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Run wires the shop API client, the storefront and the web UI, then serves
// until ctx is cancelled.
func Run(ctx context.Context, args []string, logger *zap.Logger) error {
	cfg, err := parseConfig(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	if logger == nil {
		logger, err = newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	if cfg.ShowVersion {
		logger.Info("storefront version", zap.String("version", version.Version()))
		return nil
	}

	if cfg.Demo {
		stop, baseURL, err := startDemo(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stop()
		cfg.BaseURL = baseURL
	}

	client, err := shopapi.New(shopapi.Config{
		BaseURL: cfg.BaseURL,
		APIPath: cfg.APIPath,
		Timeout: cfg.RequestTimeout,
	}, logger.Named("shopapi"))
	if err != nil {
		return errors.Wrap(err, "build shop api client")
	}

	shop := storefront.New(client, logger.Named("storefront"))
	defer shop.Close()

	// The page still renders with an error notice when the catalog is down.
	if err := shop.Start(ctx); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	}

	srv, err := httpapi.New(shop, cfg.ActionTimeout, logger.Named("http"))
	if err != nil {
		return errors.Wrap(err, "build http server")
	}

	addr := cfg.address()
	server := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("storefront is running",
		zap.String("addr", addr),
		zap.String("shop", cfg.BaseURL),
		zap.String("api_path", cfg.APIPath))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped unexpectedly")
	}
	return nil
}

// startDemo serves the in-memory shop and returns its base URL.
func startDemo(ctx context.Context, cfg Config, logger *zap.Logger) (func(), string, error) {
	mock := mockapi.New(mockapi.Config{APIPath: cfg.APIPath}, logger.Named("mockapi"))

	ln, err := net.Listen("tcp", cfg.demoAddress())
	if err != nil {
		mock.Close()
		return nil, "", errors.Wrap(err, "listen demo shop")
	}
	server := &http.Server{
		Handler:     mock.Handler(),
		ReadTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("demo shop stopped", zap.Error(err))
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	logger.Info("demo shop is running", zap.String("url", baseURL))

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		mock.Close()
	}
	return stop, baseURL, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
