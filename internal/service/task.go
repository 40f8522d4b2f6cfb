package service

import (
	"context"
	"errors"

	"github.com/taskdeck/taskdeck-go/internal/model"
	"github.com/taskdeck/taskdeck-go/internal/repository"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
	ErrEmptyPatch    = errors.New("no valid fields to update")
	ErrTaskNotFound  = errors.New("task not found")
)

// TaskService handles task business logic. Every operation is scoped to the
// owning user id supplied by the auth guard.
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create stores a new task for the user. New tasks start in the todo status.
func (s *TaskService) Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (model.TaskResponse, error) {
	if req.Title == "" {
		return model.TaskResponse{}, ErrTitleRequired
	}

	now := model.Timestamp()
	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return model.TaskResponse{}, err
	}

	return taskToResponse(*task), nil
}

// List returns all of the user's tasks.
func (s *TaskService) List(ctx context.Context, userID int64) ([]model.TaskResponse, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return tasksToResponse(tasks), nil
}

// ListByStatus returns the user's tasks with the given status.
func (s *TaskService) ListByStatus(ctx context.Context, userID int64, status string) ([]model.TaskResponse, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.repo.ListByStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	return tasksToResponse(tasks), nil
}

// Update applies a partial patch to a task. Nil fields are left unchanged; a
// patch with no recognized fields is rejected. The updated_at timestamp is
// refreshed on success.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, req model.UpdateTaskRequest) (model.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}

	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return model.TaskResponse{}, ErrInvalidStatus
	}
	if req.Title == nil && req.Description == nil && req.Status == nil {
		return model.TaskResponse{}, ErrEmptyPatch
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	task.UpdatedAt = model.Timestamp()

	if err := s.repo.Update(ctx, task); err != nil {
		return model.TaskResponse{}, err
	}

	return taskToResponse(*task), nil
}

// Delete removes a task and returns its prior state.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) (model.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}

	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}

	return taskToResponse(*task), nil
}

func taskToResponse(t model.Task) model.TaskResponse {
	return model.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// tasksToResponse converts a slice of Task to a slice of TaskResponse. The
// result is never nil so an empty list serializes as [].
func tasksToResponse(tasks []model.Task) []model.TaskResponse {
	result := make([]model.TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = taskToResponse(t)
	}
	return result
}
