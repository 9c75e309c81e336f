package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatole0000/book-store/internal/bootstrap"
	"github.com/anatole0000/book-store/internal/catalog"
	"github.com/anatole0000/book-store/internal/config"
	"github.com/anatole0000/book-store/internal/database"
	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/notify"
	"github.com/anatole0000/book-store/internal/order"
	"github.com/anatole0000/book-store/internal/queue"
	"github.com/anatole0000/book-store/internal/server"
	"github.com/anatole0000/book-store/internal/worker"
)

const (
	dbMaxConnections = 25
	dbMaxIdleTime    = 30 * time.Minute
	dbMaxLifetime    = time.Hour

	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool, cfg.JobClaimLease)

	deadLetter, err := queue.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		slog.Error("Dead-letter writer setup failed", "error", err)
		os.Exit(1)
	}

	queueService := queue.NewService(repos.Queue, deadLetter, cfg.JobMaxAttempts, cfg.JobPollInterval)
	orderService := order.NewService(repos.Bookstore, queueService, cfg.EnqueueTimeout)
	catalogService := catalog.NewService(repos.Bookstore, queueService, cfg.ImageTargetWidth)

	mailer := notify.NewLogMailer(cfg.EmailSender)
	resizer := notify.NewFileResizer()

	workerPool := worker.NewPool(queueService, cfg.WorkersPerQueue)
	workerPool.Register(domain.QueueEmail, domain.JobKindOrderConfirmation, worker.NewOrderConfirmationHandler(mailer))
	workerPool.Register(domain.QueueCatalog, domain.JobKindNewBookEntry, worker.NewBookEntryHandler(mailer, cfg.AdminEmail))
	workerPool.Register(domain.QueueImages, domain.JobKindResizeImage, worker.NewResizeImageHandler(resizer))
	workerPool.Start(context.Background())

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, catalogService, orderService, queueService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:       srv,
		WorkerPool:   workerPool,
		OrderService: orderService,
		QueueService: queueService,
	})
}
