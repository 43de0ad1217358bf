package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/oarkflow/abuseguard"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := abuseguard.NewConsoleLogger(zerolog.InfoLevel)
	guard, err := abuseguard.New(abuseguard.Config{
		APIKey: os.Getenv("ABUSEIPDB_API_KEY"),
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize abuse guard")
	}

	ln, err := net.Listen("tcp", ":8080")
	if err != nil {
		guard.Close()
		logger.Fatal().Err(err).Msg("failed to listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
	if err := run(ctx, ln, guard, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newHandler(guard *abuseguard.Guard) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return guard.Handler(mux)
}

// run serves until ctx is done, then drains the server and waits for
// in-flight reports before returning. The guard is always closed.
func run(ctx context.Context, ln net.Listener, guard *abuseguard.Guard, logger zerolog.Logger) error {
	defer guard.Close()

	srv := &http.Server{
		Handler:           newHandler(guard),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
