package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-go/internal/crypto"
	"github.com/taskdeck/taskdeck-go/internal/model"
	"github.com/taskdeck/taskdeck-go/internal/repository"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func newAuthServiceWithMock(t *testing.T) (*AuthService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	svc := NewAuthService(repository.NewUserRepository(db), "test-secret", "HS256", time.Hour)
	return svc, mock, db
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	cases := []model.RegisterRequest{
		{Username: "", Email: "a@x.com", Password: "password123"},
		{Username: "alice", Email: "", Password: "password123"},
		{Username: "alice", Email: "a@x.com", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.ErrorIs(t, err, ErrRegistrationFields)
	}
}

func TestRegister_PasswordTooShort(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "short7c",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_Success(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.ID)
	require.Equal(t, "alice", resp.Username)
	require.Equal(t, "a@x.com", resp.Email)

	_, err = time.Parse(model.TimeLayout, resp.CreatedAt)
	require.NoError(t, err, "created_at should use the record timestamp layout")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Duplicate(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("bob", "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "bob",
		Email:    "a@x.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrAccountTaken)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com"})
	require.ErrorIs(t, err, ErrLoginFields)

	_, err = svc.Login(context.Background(), model.LoginRequest{Password: "password123"})
	require.ErrorIs(t, err, ErrLoginFields)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ghost@x.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	hash, err := crypto.HashPassword("the-real-password")
	require.NoError(t, err)

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(1), "alice", "a@x.com", hash, "10:00:00 01-01-2026")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "a@x.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Success(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(1), "alice", "a@x.com", hash, "10:00:00 01-01-2026")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "a@x.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, int64(1), resp.User.ID)
	require.Equal(t, "alice", resp.User.Username)

	// The issued token must resolve back to the same subject.
	claims, err := crypto.ValidateToken(resp.Token, "test-secret", "HS256")
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
}
