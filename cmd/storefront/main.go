// Package main запускает HTTP-шлюз витрины CraveCrafters.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/backend"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/catalog"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/checkout"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/config"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/handler"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	if cfg.BackendAddress == "" {
		sugar.Fatalw("backend address is required")
	}

	client := backend.NewClient(cfg.BackendAddress, backend.Options{
		Timeout: cfg.RequestTimeout,
		Retries: cfg.ClientRetries,
		Logger:  logger,
	})

	cat := catalog.New(client, logger, cfg.CatalogRefreshInterval)
	poller := checkout.NewPoller(client, logger)

	svc := service.NewService(client, cat, poller)

	h := handler.NewHandler(svc, logger, cfg.RateLimitRPS)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск фонового обновления снимка каталога
	g.Go(func() error {
		cat.StartRefresh(ctx)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting storefront gateway", "addr", cfg.RunAddress, "backend", cfg.BackendAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
