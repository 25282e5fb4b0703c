package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/mr-wordcount/internal/common"
	"github.com/dtnitsch/mr-wordcount/pkg/api"
	"github.com/urfave/cli/v2"
)

// ServeAction runs the HTTP service until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	logger := common.NewLogger(c, cfg)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, store, err := common.OpenRunner(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		return err
	}
	defer store.Close()

	srv := api.NewHTTPServer(cfg.Addr, api.NewRouter(runner, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "driver", cfg.Store.Driver, "batch_size", cfg.BatchSize)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
