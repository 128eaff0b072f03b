// Package main запускает HTTP-сервер магазина.
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

	"github.com/avolkov/marketplace-system/internal/blob"
	"github.com/avolkov/marketplace-system/internal/config"
	"github.com/avolkov/marketplace-system/internal/handler"
	"github.com/avolkov/marketplace-system/internal/middleware"
	"github.com/avolkov/marketplace-system/internal/repository"
	"github.com/avolkov/marketplace-system/internal/service"
	"github.com/avolkov/marketplace-system/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	blobs, err := blob.NewFileStore(cfg.UploadDir)
	if err != nil {
		sugar.Fatalw("blob store initialization error", "error", err.Error())
	}

	sessions := session.NewAuthority(repo)
	auth := middleware.NewAuth(sessions)

	catalog := service.NewCatalog(repo)
	identity := service.NewIdentity(repo, service.BcryptHasher{})
	commerce := service.NewCommerce(repo)

	h := handler.NewHandler(catalog, identity, commerce, blobs, sessions, auth, logger, cfg.StaticDir)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting marketplace server", "addr", cfg.RunAddress)
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
