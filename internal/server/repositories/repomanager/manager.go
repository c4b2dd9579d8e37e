package repomanager

import (
	"context"

	"github.com/ZinoChan/LangRhythms/internal/server/repositories/users"
)

// RepositoryManager vends repositories for one storage backend.
//
// WithinTx runs fn with a users.Repository whose writes commit together
// when fn returns nil and are discarded otherwise.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
}
