package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/policy"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// upcomingWindowDays is the horizon of the upcoming view.
const upcomingWindowDays = 7

// TaskService handles task management
type TaskService struct {
	taskRepo  ports.TaskRepository
	boardRepo ports.BoardRepository
	userRepo  ports.UserRepository
	logger    *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, boardRepo ports.BoardRepository, userRepo ports.UserRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// isBoardMember reports whether the user holds any membership on the
// task's board. Always false for unscoped tasks.
func (s *TaskService) isBoardMember(ctx context.Context, userID uuid.UUID, task *entities.Task) (bool, error) {
	if !task.IsBoardScoped() {
		return false, nil
	}

	_, err := s.boardRepo.GetMembership(ctx, userID, *task.BoardID)
	if err != nil {
		if errors.Is(err, entities.ErrMembershipNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// getVisible resolves a task within the actor's visible set. Tasks outside
// it report as not found.
func (s *TaskService) getVisible(ctx context.Context, actorID uuid.UUID, id int) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member, err := s.isBoardMember(ctx, actorID, task)
	if err != nil {
		return nil, err
	}

	if !policy.CanViewTask(actorID, task, member) {
		return nil, entities.ErrTaskNotFound
	}

	return task, nil
}

// CreateTask creates a task owned by the actor. Board-scoped tasks require
// the actor to be a member of the board.
func (s *TaskService) CreateTask(ctx context.Context, actorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	priority := req.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}
	status := req.Status
	if status == "" {
		status = entities.TaskStatusTodo
	}

	if req.BoardID != nil {
		if _, err := s.boardRepo.GetByID(ctx, *req.BoardID); err != nil {
			return nil, err
		}
		if _, err := s.boardRepo.GetMembership(ctx, actorID, *req.BoardID); err != nil {
			if errors.Is(err, entities.ErrMembershipNotFound) {
				return nil, entities.ErrForbidden
			}
			return nil, err
		}
	}

	task := &entities.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerID:     actorID,
		BoardID:     req.BoardID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "owner_id", actorID)

	return task, nil
}

// GetTask retrieves a task within the actor's visible set
func (s *TaskService) GetTask(ctx context.Context, actorID uuid.UUID, id int) (*entities.Task, error) {
	return s.getVisible(ctx, actorID, id)
}

// UpdateTask updates a task under the board-member-or-read-only rule.
func (s *TaskService) UpdateTask(ctx context.Context, actorID uuid.UUID, id int, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member, err := s.isBoardMember(ctx, actorID, task)
	if err != nil {
		return nil, err
	}

	if !policy.CanWriteTask(actorID, task, member) {
		return nil, entities.ErrForbidden
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		task.EndDate = req.EndDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "actor_id", actorID)

	return task, nil
}

// DeleteTask deletes a task under the board-member-or-read-only rule.
func (s *TaskService) DeleteTask(ctx context.Context, actorID uuid.UUID, id int) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	member, err := s.isBoardMember(ctx, actorID, task)
	if err != nil {
		return err
	}

	if !policy.CanWriteTask(actorID, task, member) {
		return entities.ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", id, "actor_id", actorID)

	return nil
}

// ListTasks lists tasks visible to the actor, filtered and ordered.
func (s *TaskService) ListTasks(ctx context.Context, actorID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx, actorID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// AddCollaborator grants a user task-level access. For board-scoped tasks
// the actor must be a board member; otherwise the usual write rule applies.
func (s *TaskService) AddCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	member, err := s.isBoardMember(ctx, actorID, task)
	if err != nil {
		return err
	}

	if task.IsBoardScoped() {
		if !member {
			return entities.ErrForbidden
		}
	} else if !policy.CanWriteTask(actorID, task, member) {
		return entities.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.taskRepo.AddCollaborator(ctx, taskID, userID); err != nil {
		return err
	}

	s.logger.Infow("Collaborator added", "task_id", taskID, "user_id", userID)

	return nil
}

// RemoveCollaborator revokes a user's task-level access.
func (s *TaskService) RemoveCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	member, err := s.isBoardMember(ctx, actorID, task)
	if err != nil {
		return err
	}

	if !policy.CanWriteTask(actorID, task, member) {
		return entities.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.taskRepo.RemoveCollaborator(ctx, taskID, userID); err != nil {
		return err
	}

	s.logger.Infow("Collaborator removed", "task_id", taskID, "user_id", userID)

	return nil
}

// Calendar returns visible tasks whose date span overlaps [from, to].
func (s *TaskService) Calendar(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]*entities.Task, error) {
	if to.Before(from) {
		from, to = to, from
	}

	filter := ports.TaskFilter{
		From:   &from,
		To:     &to,
		SortBy: "start_date",
	}

	tasks, err := s.taskRepo.List(ctx, actorID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	return tasks, nil
}

// Upcoming returns visible tasks whose start or end date falls within the
// next seven days, inclusive of today and day seven. A task whose span
// merely covers the window does not qualify.
func (s *TaskService) Upcoming(ctx context.Context, actorID uuid.UUID) ([]*entities.Task, error) {
	today := time.Now().Truncate(24 * time.Hour)
	to := today.AddDate(0, 0, upcomingWindowDays)

	filter := ports.TaskFilter{
		From:        &today,
		To:          &to,
		DatesWithin: true,
		SortBy:      "start_date",
	}

	tasks, err := s.taskRepo.List(ctx, actorID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming tasks: %w", err)
	}

	return tasks, nil
}
