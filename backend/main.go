package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gobang: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := LoadConfig(os.Getenv("GOBANG_CONFIG"))
	if err != nil {
		return err
	}
	configStore.Update(config)

	logger, err := newLogger(config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller := NewGameController(DefaultGameSettings(), logger.Named("game"))
	hub := NewHub(logger.Named("hub"))
	unsubscribe := controller.Subscribe(hub.Publish)
	defer unsubscribe()
	go hub.Run(ctx.Done())
	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		controller.Run(ctx)
	}()

	api := NewAPI(controller, hub, NewSaveStore(config.SaveDir, logger.Named("saves")), logger.Named("api"))
	server := &http.Server{
		Addr:    config.ListenAddr,
		Handler: api.Routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Info("backend listening", zap.String("addr", config.ListenAddr))
	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received", zap.Error(sigCtx.Err()))
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			logger.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Warn("forced close failed", zap.Error(closeErr))
		}
	}

	cancel()
	<-controllerDone
	return runErr
}
