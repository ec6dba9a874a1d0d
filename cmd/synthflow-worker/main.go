// Synthflow Worker — выполняет сборки по запросам из очереди.
//
// Worker:
//   - Получает запросы на сборку из RabbitMQ
//   - Запускает синтез через backend и разбирает отчёты
//   - Сохраняет историю в PostgreSQL, артефакты в S3
//   - Публикует событие о завершении
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Synthflow/internal/artifact"
	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
	"github.com/shaiso/Synthflow/internal/telemetry"
	"github.com/shaiso/Synthflow/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting synthflow-worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	// RabbitMQ
	mqConn, err := mq.NewConnection(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}
	publisher := mq.NewPublisher(mqConn, logger)

	// Backends
	factory := backend.NewFactory(backend.Deps{
		Compiler: cfg.Toolchain.Compiler,
		Logger:   logger,
	})
	if _, err := factory.LoadAll(); err != nil {
		logger.Error("failed to load backends", "error", err)
		os.Exit(1)
	}

	// Artifacts (опционально)
	var upload worker.ArtifactUploader
	if cfg.Artifact.Enabled {
		store, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create artifact store", "error", err)
			os.Exit(1)
		}
		upload = func(ctx context.Context, rec *domain.BuildRecord) (string, error) {
			return artifact.UploadBuild(ctx, store, rec)
		}
		logger.Info("artifact store enabled", "endpoint", cfg.Artifact.Endpoint, "bucket", cfg.Artifact.Bucket)
	}

	// Создаём worker
	w := worker.New(worker.Config{
		Builds:    repo.NewBuildRepo(pool),
		Backends:  factory,
		Publisher: publisher,
		Upload:    upload,
		Conn:      mqConn,
		Logger:    logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("rabbitmq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":" + cfg.WorkerPort

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("synthflow-worker stopped")
}
