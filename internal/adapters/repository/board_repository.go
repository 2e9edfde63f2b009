package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// BoardRepositoryImpl implements the BoardRepository interface
type BoardRepositoryImpl struct {
	db *sqlx.DB
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *sqlx.DB) ports.BoardRepository {
	return &BoardRepositoryImpl{db: db}
}

// ext returns the transaction when one is supplied, the pool otherwise.
func (r *BoardRepositoryImpl) ext(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *BoardRepositoryImpl) Create(ctx context.Context, tx *sqlx.Tx, board *entities.Board) error {
	query := `
		INSERT INTO boards (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.ext(tx).QueryRowxContext(ctx, query,
		board.Name, board.Description, board.OwnerID,
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}

	return nil
}

func (r *BoardRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Board, error) {
	query := `
		SELECT b.id, b.name, b.description, b.owner_id, b.created_at, b.updated_at,
			(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id) AS task_count
		FROM boards b
		WHERE b.id = $1`

	var board entities.Board
	err := r.db.GetContext(ctx, &board, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrBoardNotFound
		}
		return nil, fmt.Errorf("get board by id: %w", err)
	}

	return &board, nil
}

func (r *BoardRepositoryImpl) Update(ctx context.Context, board *entities.Board) error {
	query := `
		UPDATE boards
		SET name = $2, description = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		board.ID, board.Name, board.Description,
	).Scan(&board.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrBoardNotFound
		}
		return fmt.Errorf("update board: %w", err)
	}

	return nil
}

func (r *BoardRepositoryImpl) Delete(ctx context.Context, tx *sqlx.Tx, id int) error {
	query := `DELETE FROM boards WHERE id = $1`

	result, err := r.ext(tx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrBoardNotFound
	}

	return nil
}

func (r *BoardRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*entities.Board, error) {
	query := `
		SELECT b.id, b.name, b.description, b.owner_id, b.created_at, b.updated_at,
			(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id) AS task_count
		FROM boards b
		JOIN board_memberships m ON m.board_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.created_at DESC`

	var boards []*entities.Board
	err := r.db.SelectContext(ctx, &boards, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards for user: %w", err)
	}

	return boards, nil
}

func (r *BoardRepositoryImpl) GetMembership(ctx context.Context, userID uuid.UUID, boardID int) (*entities.BoardMembership, error) {
	query := `
		SELECT id, user_id, board_id, role, joined_at
		FROM board_memberships
		WHERE user_id = $1 AND board_id = $2`

	var m entities.BoardMembership
	err := r.db.GetContext(ctx, &m, query, userID, boardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &m, nil
}

func (r *BoardRepositoryImpl) ListMemberships(ctx context.Context, boardID int) ([]entities.BoardMembership, error) {
	query := `
		SELECT m.id, m.user_id, m.board_id, m.role, m.joined_at
		FROM board_memberships m
		WHERE m.board_id = $1
		ORDER BY m.joined_at`

	var memberships []entities.BoardMembership
	err := r.db.SelectContext(ctx, &memberships, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	return memberships, nil
}

func (r *BoardRepositoryImpl) AddMembership(ctx context.Context, tx *sqlx.Tx, m *entities.BoardMembership) error {
	query := `
		INSERT INTO board_memberships (user_id, board_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := r.ext(tx).QueryRowxContext(ctx, query,
		m.UserID, m.BoardID, m.Role,
	).Scan(&m.ID, &m.JoinedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrAlreadyMember
		}
		return fmt.Errorf("add membership: %w", err)
	}

	return nil
}

func (r *BoardRepositoryImpl) RemoveMembership(ctx context.Context, userID uuid.UUID, boardID int) error {
	query := `DELETE FROM board_memberships WHERE user_id = $1 AND board_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, boardID)
	if err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrMembershipNotFound
	}

	return nil
}

func (r *BoardRepositoryImpl) DeleteMemberships(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	query := `DELETE FROM board_memberships WHERE board_id = $1`

	if _, err := r.ext(tx).ExecContext(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
