package users

import (
	"context"

	"github.com/ZinoChan/LangRhythms/internal/server/models"
)

// Repository stores user accounts keyed by email.
//
// GetUserByEmail returns common.ErrorNotFound for unknown emails; Create
// returns common.ErrorConflict when the email is already taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
