package bootstrap

import (
	"context"
	"log/slog"

	"github.com/anatole0000/book-store/internal/order"
	"github.com/anatole0000/book-store/internal/queue"
	"github.com/anatole0000/book-store/internal/server"
	"github.com/anatole0000/book-store/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server       *server.Server
	WorkerPool   *worker.Pool
	OrderService order.Service
	QueueService queue.Service
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in the correct order:
// 1. HTTP server (stop accepting new requests)
// 2. Worker pool (finish in-flight jobs)
// 3. Order service (drain post-commit notification enqueues)
// 4. Queue service (flush the dead-letter file)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	// Shutdown server first (stop accepting new requests)
	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	// Stop workers before the queue so no job is claimed mid-shutdown
	if components.WorkerPool != nil {
		if err := components.WorkerPool.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWorkerPoolShutdownFailed, "error", err)
		}
	}

	shutdownService(ctx, ServiceNameOrder, components.OrderService)
	shutdownService(ctx, ServiceNameQueue, components.QueueService)

	slog.Info(LogMsgServerStopped)
}

// shutdownService is a helper that shuts down a service and logs any errors.
// This implements a common pattern for all service shutdowns.
type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if service == nil {
		return
	}
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
