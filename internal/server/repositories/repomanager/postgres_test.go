package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/server/models"
	"github.com/ZinoChan/LangRhythms/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestNewPostgresRepositoryManager(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m, err := NewPostgresRepositoryManager(db)
	require.NoError(t, err)

	var _ users.Repository = m.Users()
	assert.IsType(t, &users.PostgresRepository{}, m.Users())

	_, err = NewPostgresRepositoryManager(nil)
	require.Error(t, err)
}

func TestWithinTx_Commits(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@b.com", "A B", "h").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	m, err := NewPostgresRepositoryManager(db)
	require.NoError(t, err)

	err = m.WithinTx(context.Background(), func(ctx context.Context, repo users.Repository) error {
		_, err := repo.Create(ctx, &models.User{Email: "a@b.com", FullName: "A B", PasswordHash: "h"})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, email`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "fullname", "password_hash", "created_at"}).
			AddRow(int64(1), "a@b.com", "A B", "h", time.Now()))
	mock.ExpectRollback()

	m, err := NewPostgresRepositoryManager(db)
	require.NoError(t, err)

	err = m.WithinTx(context.Background(), func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.GetUserByEmail(ctx, "a@b.com"); err == nil {
			return common.ErrorConflict
		}
		return nil
	})
	require.ErrorIs(t, err, common.ErrorConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{db: db}
	require.NoError(t, m.RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{db: db}
	err := m.RunMigrations(context.Background())
	require.EqualError(t, err, "boom")
}
