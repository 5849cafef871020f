package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wrangler/adapters/datareadiness"
	"wrangler/adapters/datareadiness/coercer"
	"wrangler/adapters/excel"
	"wrangler/internal"
	"wrangler/internal/api"
	"wrangler/internal/config"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	loaderConfig := excel.DefaultLoaderConfig()
	typeCoercer := coercer.NewTypeCoercer(loaderConfig.CoercionConfig).WithLogger(logger)

	server := api.NewServer(
		excel.NewLoader(loaderConfig, logger),
		datareadiness.NewProfilerAdapter(typeCoercer, datareadiness.WithLogger(logger)),
		appConfig.ProfileConfig(),
		appConfig.Server.MaxUploadMB,
		logger,
	)

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
