package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/db"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/ratelimit"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository/memory"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository/postgres"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/auth"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/chirp"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/pruner"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	pruner *pruner.Pruner

	// Release connections in reverse order
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{
		ListenAddr: c.ListenAddr,
		logger:     logger,
	}

	var storage repository.Storage
	if c.DatabaseDSN == "" {
		logger.Warn("DATABASE_URI not set, data is kept in memory")
		storage = memory.NewStorage()
	} else {
		// Connect to the database and run migrations
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		storage = postgres.NewStorage(pool)
	}

	authCfg := auth.Config{
		SecretKey: c.SecretKey,
		PolkaKey:  c.PolkaKey,
	}
	if c.RedisAddr != "" {
		client, err := ratelimit.Connect(ctx, c.RedisAddr)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		authCfg.Throttle = ratelimit.New(client, ratelimit.Config{})
	}

	// Initialize services
	authService, err := auth.NewService(authCfg, storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(nil, storage)
	chirpService := chirp.NewService(storage)

	app.pruner = pruner.New(c.PruneInterval, pruner.DefaultRetention, storage.Refresh(), logger)
	app.Handler = handlers.NewRouter(
		authService,
		userService,
		chirpService,
		handlers.Site{Platform: c.Platform, FileRoot: c.FileRoot},
		logger,
	)

	return app, nil
}

// Close releases database and redis connections
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http server and token pruner; closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	prunerStopped := s.pruner.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-prunerStopped

	return err
}
