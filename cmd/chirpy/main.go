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
)

func main() {
	// Initialize context that cancelled on SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		slog.Error("chirpy stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

// Configure and run the server until context is done
func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	c := NewConfig()

	if err := c.LoadDotEnv(getwd); err != nil {
		return fmt.Errorf("can't load .env file. Err: %w", err)
	}
	if err := c.LoadEnv(getenv); err != nil {
		return fmt.Errorf("can't load environment. Err: %w", err)
	}
	if err := c.ParseFlags(args); err != nil {
		return fmt.Errorf("can't parse flags. Err: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	srv, err := NewServerApp(ctx, c)
	if err != nil {
		return fmt.Errorf("can't initialize app, sorry. Err: %w", err)
	}
	defer srv.Close()

	if err := srv.Run(ctx); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error. Err: %w", err)
	}

	return nil
}
