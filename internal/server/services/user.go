// Package services contains server-side business logic. This file implements
// UserService, which handles signup (gated by email validation), login and
// profile lookups.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/ZinoChan/LangRhythms/internal/server/emailvalidation"
	"github.com/ZinoChan/LangRhythms/internal/server/models"
	"github.com/ZinoChan/LangRhythms/internal/server/repositories/repomanager"
	"github.com/ZinoChan/LangRhythms/internal/server/repositories/users"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string
	Email       string
	FullName    string
}

// UserService provides account operations:
// - Signup: validate the address upstream, then create the user
// - Login: verify credentials and mint a token
// - Profile: look up the authenticated user
type UserService struct {
	repomanager repomanager.RepositoryManager
	validator   emailvalidation.Validator
	hasher      auth.PasswordHasher
	tokens      *auth.TokenManager
	logger      logging.Logger

	dummyHash func() (string, error)
}

// NewUserService wires a UserService. A nil logger discards output.
func NewUserService(m repomanager.RepositoryManager, v emailvalidation.Validator, h auth.PasswordHasher,
	tokens *auth.TokenManager, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{
		repomanager: m,
		validator:   v,
		hasher:      h,
		tokens:      tokens,
		logger:      logger,
		dummyHash: sync.OnceValues(func() (string, error) {
			return h.Hash("dummy-password-for-timing")
		}),
	}
}

// Login verifies the password for email and returns a fresh token. Unknown
// emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Spend the same hashing time as a real check.
			hash, hErr := s.dummyHash()
			if hErr != nil {
				s.logger.Debug(ctx, "timing hash unavailable", "error", hErr)
			} else {
				_ = s.hasher.Compare(hash, password)
			}
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{AccessToken: token, Email: user.Email, FullName: user.FullName}, nil
}

// Signup registers a new account. The existence check runs before the
// validation service is consulted, so known emails never cost an upstream
// call. An Invalid verdict yields common.ErrorInvalidEmail and stores nothing.
func (s *UserService) Signup(ctx context.Context, email, fullName, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || fullName == "" || password == "" {
		return nil, fmt.Errorf("%w: email, fullname and password are required", common.ErrorValidation)
	}

	if err := s.ensureAbsent(ctx, s.repomanager.Users(), email); err != nil {
		return nil, err
	}

	verdict, err := s.validator.Validate(ctx, email)
	if err != nil {
		s.logger.Warn(ctx, "email validation failed", "error", err)
		return nil, fmt.Errorf("validate email: %w", err)
	}
	if verdict != emailvalidation.Valid {
		s.logger.Info(ctx, "signup rejected", "reason", "invalid email")
		return nil, common.ErrorInvalidEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var created *models.User
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if err := s.ensureAbsent(ctx, repo, email); err != nil {
			return err
		}
		u, err := repo.Create(ctx, &models.User{Email: email, FullName: fullName, PasswordHash: hash})
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "signup accepted", "user_id", created.ID)
	return created, nil
}

// Profile returns the stored account for an authenticated email.
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *UserService) ensureAbsent(ctx context.Context, repo users.Repository, email string) error {
	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrorConflict
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}
