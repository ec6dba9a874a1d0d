// Synthflow API — HTTP API для просмотра flows и истории сборок и
// постановки сборок в очередь.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Synthflow/internal/api"
	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/cli"
	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting synthflow-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ядро: backend'ы, flows из flow-файла, резолвер
	app, err := cli.NewApp(cfg, backend.Deps{Logger: logger})
	if err != nil {
		logger.Error("failed to build registry", "error", err)
		os.Exit(1)
	}
	logger.Info("flows registered", "count", app.Registry.Count())

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := repo.EnsureSchema(context.Background(), pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	handlerCfg := api.Config{
		Flows:    app.Registry,
		Resolver: app.Resolver,
		Builds:   repo.NewBuildRepo(pool),
		Backends: app.Factory,
		Logger:   logger,
	}

	// RabbitMQ опционален: без него API работает только на чтение
	mqConn, err := mq.NewConnection(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, build requests disabled", "error", err)
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(context.Background(), mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		handlerCfg.Publisher = mq.NewPublisher(mqConn, logger)
	}

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	api.NewHandler(handlerCfg).RegisterRoutes(mux)

	addr := ":" + cfg.APIPort

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
