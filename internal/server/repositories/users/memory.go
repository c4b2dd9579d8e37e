package users

import (
	"context"
	"sync"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/server/models"
)

// MemoryRepository keeps users in a map. It is used when no database is
// configured and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	nextID int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrorConflict
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = r.now().UTC()
	r.users[user.Email] = *user

	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
