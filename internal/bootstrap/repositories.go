package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatole0000/book-store/internal/database/postgres"
	"github.com/anatole0000/book-store/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Bookstore repository.Bookstore
	Queue     repository.Queue
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool, jobClaimLease time.Duration) *Repositories {
	return &Repositories{
		Bookstore: postgres.NewBookstoreRepository(dbPool),
		Queue:     postgres.NewQueueRepository(dbPool, jobClaimLease),
	}
}
