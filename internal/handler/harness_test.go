package handler

import (
	"database/sql"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-go/internal/middleware"
	"github.com/taskdeck/taskdeck-go/internal/repository"
	"github.com/taskdeck/taskdeck-go/internal/service"
)

const (
	testSecret    = "test-secret"
	testAlgorithm = "HS256"
)

var (
	userColumns = []string{"id", "username", "email", "password_hash", "created_at"}
	taskColumns = []string{"id", "user_id", "title", "description", "status", "created_at", "updated_at"}
)

// newTestRouter wires the full HTTP stack over a sqlmock database, mirroring
// the route layout in cmd/api.
func newTestRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authHandler := NewAuthHandler(service.NewAuthService(userRepo, testSecret, testAlgorithm, time.Hour))
	taskHandler := NewTaskHandler(service.NewTaskService(taskRepo))

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.HandleRegister)
	r.Post("/auth/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret, testAlgorithm, userRepo))
		r.Get("/auth/me", authHandler.HandleMe)

		r.Post("/todos", taskHandler.HandleCreateTask)
		r.Get("/todos", taskHandler.HandleListTasks)
		r.Get("/todos/{status}", taskHandler.HandleListByStatus)
		r.Put("/todos/{id}", taskHandler.HandleUpdateTask)
		r.Delete("/todos/{id}", taskHandler.HandleDeleteTask)
	})

	return r, mock, db
}

func doRequest(t *testing.T, router chi.Router, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// expectUserByID queues the guard's subject-resolution query.
func expectUserByID(mock sqlmock.Sqlmock, id int64, username string) {
	rows := sqlmock.NewRows(userColumns).
		AddRow(id, username, username+"@x.com", "hash", "10:00:00 01-01-2026")
	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs(id).
		WillReturnRows(rows)
}
