package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"medquest/internal/domain"
	"medquest/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"ID", "EMAIL", "USERNAME", "PASSWORD_HASH", "CREATED_AT", "UPDATED_AT"}

func TestUserConverters(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := &models.User{
		ID:           "01HUSER",
		Email:        "doc@example.com",
		Username:     sql.NullString{String: "house", Valid: true},
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	u := toDomainUser(m)
	require.NotNil(t, u)
	assert.Equal(t, "house", u.Username)
	assert.Equal(t, m, fromDomainUser(u))

	m.Username = sql.NullString{}
	assert.Equal(t, "", toDomainUser(m).Username)
	assert.False(t, fromDomainUser(&domain.User{}).Username.Valid)

	assert.Nil(t, toDomainUser(nil))
	assert.Nil(t, fromDomainUser(nil))
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	user := &domain.User{Email: "doc@example.com", Username: "house", PasswordHash: "hash"}

	mock.ExpectExec(`INSERT INTO users \(id, email, username, password_hash, created_at, updated_at\)`).
		WithArgs(sqlmock.AnyArg(), "doc@example.com", "house", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.Len(t, user.ID, 26)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("ORA-00001: unique constraint (MEDQUEST.UQ_USERS_EMAIL) violated"))

	err := repo.CreateUser(context.Background(), &domain.User{Email: "dup@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = :1`).
		WithArgs("doc@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("01HUSER", "doc@example.com", nil, "hash", now, now))

	u, err := repo.GetUserByEmail(context.Background(), "doc@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "01HUSER", u.ID)
	assert.Equal(t, "", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = :1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetUserByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByID_DBError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(errors.New("ORA-03113"))

	_, err := repo.GetUserByID(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
