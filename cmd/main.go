// @title			VidLinkGen API
// @version		1.0
// @description	Shareable video links with passwords, expiry, email allowlists and click analytics
// @BasePath		/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/bootstrap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Initialize(ctx)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	var wg sync.WaitGroup

	// Запуск фоновой проверки сроков премиума
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Worker.Start(ctx)
	}()

	server := &http.Server{
		Addr:              ":" + app.Config.HTTPPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		app.Logger.Info("Starting HTTP server", "port", app.Config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	app.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Graceful shutdown failed", "error", err)
	}

	wg.Wait()
}
