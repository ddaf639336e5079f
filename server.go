package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Serve runs srv on addr until ctx is done, then shuts it down gracefully
func Serve[T any](ctx context.Context, srv router.Server[T], addr string, logger Logger) error {
	logger = ensureLogger(logger)

	firstErr := make(chan error, 1)
	go func() {
		defer close(firstErr)
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.Serve(addr); err != nil {
			firstErr <- goerrors.Wrap(err, goerrors.CategoryInternal, "http server failed").
				WithMetadata(map[string]any{"addr": addr})
		}
	}()

	select {
	case err := <-firstErr:
		return err
	case <-ctx.Done():
		logger.Info("initiating shutdown process")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "http server shutdown failed")
		}
		logger.Info("shutdown completed")
		return <-firstErr
	}
}
