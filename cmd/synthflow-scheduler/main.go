// Synthflow Scheduler — публикует запросы на сборку по cron-расписаниям
// из flow-файла.
//
// Несколько экземпляров могут работать одновременно: тикает только тот,
// кто держит advisory lock в PostgreSQL.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/flowfile"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
	"github.com/shaiso/Synthflow/internal/scheduler"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

const schedLockKey int64 = 424242

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting synthflow-scheduler")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.FlowFile == "" {
		logger.Error("SYNTHFLOW_FLOW_FILE is required")
		os.Exit(1)
	}

	ff, err := flowfile.Load(cfg.FlowFile)
	if err != nil {
		logger.Error("failed to load flow file", "file", cfg.FlowFile, "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool (только для leader election)
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// RabbitMQ
	mqConn, err := mq.NewConnection(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	sched, err := scheduler.New(scheduler.Config{
		Schedules: ff.Schedules,
		Publisher: mq.NewPublisher(mqConn, logger),
		Elector:   repo.NewAdvisoryLeader(pool, schedLockKey, logger),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("invalid schedules", "error", err)
		os.Exit(1)
	}
	logger.Info("schedules loaded", "count", len(ff.Schedules))

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// scheduler loop: тикает только лидер
	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx, time.Second)
	}()

	// serve
	port := ":" + cfg.SchedPort
	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	<-done // lock снимается до закрытия пула
	logger.Info("synthflow-scheduler stopped")
}
