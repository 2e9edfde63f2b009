package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) ext(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (title, description, priority, status, start_date, end_date, owner_id, board_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Priority, task.Status,
		task.StartDate, task.EndDate, task.OwnerID, task.BoardID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Task, error) {
	query := `
		SELECT id, title, description, priority, status, start_date, end_date,
			owner_id, board_id, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	collaborators, err := r.GetCollaborators(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Collaborators = collaborators

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5,
			start_date = $6, end_date = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Priority, task.Status,
		task.StartDate, task.EndDate,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// sortColumns whitelists user-supplied sort keys.
var sortColumns = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"priority":   "t.priority",
	"status":     "t.status",
	"start_date": "t.start_date",
	"end_date":   "t.end_date",
}

// List returns the tasks visible to userID (owner, collaborator, or member
// of the task's board) narrowed by the filter.
func (r *TaskRepositoryImpl) List(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	clauses := []string{"(t.owner_id = $1 OR tc.user_id = $1 OR bm.user_id = $1)"}
	args := []interface{}{userID}

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, *filter.Search)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(t.title ILIKE '%%' || $%d || '%%' OR t.description ILIKE '%%' || $%d || '%%')", n, n))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if filter.BoardID != nil {
		args = append(args, *filter.BoardID)
		clauses = append(clauses, fmt.Sprintf("t.board_id = $%d", len(args)))
	}
	if filter.From != nil && filter.To != nil {
		args = append(args, *filter.From, *filter.To)
		from, to := len(args)-1, len(args)
		if filter.DatesWithin {
			clauses = append(clauses, fmt.Sprintf(
				"(t.start_date BETWEEN $%d AND $%d OR t.end_date BETWEEN $%d AND $%d)", from, to, from, to))
		} else {
			clauses = append(clauses, fmt.Sprintf(
				"(COALESCE(t.start_date, t.end_date) <= $%d AND COALESCE(t.end_date, t.start_date) >= $%d)", to, from))
		}
	}

	orderBy := "t.created_at"
	if col, ok := sortColumns[filter.SortBy]; ok {
		orderBy = col
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT t.id, t.title, t.description, t.priority, t.status,
			t.start_date, t.end_date, t.owner_id, t.board_id, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN task_collaborators tc ON tc.task_id = t.id
		LEFT JOIN board_memberships bm ON bm.board_id = t.board_id
		WHERE %s
		ORDER BY %s %s
		LIMIT %d OFFSET %d`,
		strings.Join(clauses, " AND "), orderBy, direction, limit, filter.Offset)

	var tasks []*entities.Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) ListForBoard(ctx context.Context, boardID int) ([]*entities.Task, error) {
	query := `
		SELECT id, title, description, priority, status, start_date, end_date,
			owner_id, board_id, created_at, updated_at
		FROM tasks
		WHERE board_id = $1
		ORDER BY created_at DESC`

	var tasks []*entities.Task
	err := r.db.SelectContext(ctx, &tasks, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("list board tasks: %w", err)
	}

	return tasks, nil
}

// DeleteForBoard removes a board's tasks and their collaborator rows, the
// collaborator rows first so no row ever references a missing task.
func (r *TaskRepositoryImpl) DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	collabQuery := `
		DELETE FROM task_collaborators
		WHERE task_id IN (SELECT id FROM tasks WHERE board_id = $1)`

	if _, err := r.ext(tx).ExecContext(ctx, collabQuery, boardID); err != nil {
		return fmt.Errorf("delete board task collaborators: %w", err)
	}

	if _, err := r.ext(tx).ExecContext(ctx, `DELETE FROM tasks WHERE board_id = $1`, boardID); err != nil {
		return fmt.Errorf("delete board tasks: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetCollaborators(ctx context.Context, taskID int) ([]entities.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.password_hash, u.first_name, u.last_name,
			u.created_at, u.updated_at
		FROM users u
		JOIN task_collaborators tc ON tc.user_id = u.id
		WHERE tc.task_id = $1
		ORDER BY u.username`

	var users []entities.User
	err := r.db.SelectContext(ctx, &users, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("get collaborators: %w", err)
	}

	return users, nil
}

func (r *TaskRepositoryImpl) AddCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error {
	query := `
		INSERT INTO task_collaborators (task_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, taskID, userID); err != nil {
		return fmt.Errorf("add collaborator: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) RemoveCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error {
	query := `DELETE FROM task_collaborators WHERE task_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, taskID, userID); err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}

	return nil
}
