package web

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Serve runs an HTTP server for handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	if ctx == nil {
		return errors.New("web: context is nil")
	}
	if addr == "" {
		return errors.New("web: addr is required")
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
