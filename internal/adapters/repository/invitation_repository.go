package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// InvitationRepositoryImpl implements the InvitationRepository interface
type InvitationRepositoryImpl struct {
	db *sqlx.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *sqlx.DB) ports.InvitationRepository {
	return &InvitationRepositoryImpl{db: db}
}

func (r *InvitationRepositoryImpl) ext(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *InvitationRepositoryImpl) Create(ctx context.Context, inv *entities.BoardInvitation) error {
	query := `
		INSERT INTO board_invitations (board_id, inviter_id, invitee_email, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		inv.BoardID, inv.InviterID, inv.InviteeEmail, inv.Role, inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateInvitation
		}
		return fmt.Errorf("create invitation: %w", err)
	}

	return nil
}

func (r *InvitationRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.BoardInvitation, error) {
	query := `
		SELECT id, board_id, inviter_id, invitee_email, role, status, created_at
		FROM board_invitations
		WHERE id = $1`

	var inv entities.BoardInvitation
	err := r.db.GetContext(ctx, &inv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation by id: %w", err)
	}

	return &inv, nil
}

func (r *InvitationRepositoryImpl) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id int, status entities.InvitationStatus) error {
	query := `UPDATE board_invitations SET status = $2 WHERE id = $1`

	result, err := r.ext(tx).ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrInvitationNotFound
	}

	return nil
}

func (r *InvitationRepositoryImpl) HasPending(ctx context.Context, boardID int, inviteeEmail string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM board_invitations
			WHERE board_id = $1 AND lower(invitee_email) = lower($2) AND status = 'pending'
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, boardID, inviteeEmail)
	if err != nil {
		return false, fmt.Errorf("check pending invitation: %w", err)
	}

	return exists, nil
}

// ListForUser returns invitations the user sent plus invitations addressed
// to the user's email.
func (r *InvitationRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, email string) ([]*entities.BoardInvitation, error) {
	query := `
		SELECT id, board_id, inviter_id, invitee_email, role, status, created_at
		FROM board_invitations
		WHERE inviter_id = $1 OR lower(invitee_email) = lower($2)
		ORDER BY created_at DESC`

	var invitations []*entities.BoardInvitation
	err := r.db.SelectContext(ctx, &invitations, query, userID, email)
	if err != nil {
		return nil, fmt.Errorf("list invitations for user: %w", err)
	}

	return invitations, nil
}

func (r *InvitationRepositoryImpl) DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	query := `DELETE FROM board_invitations WHERE board_id = $1`

	if _, err := r.ext(tx).ExecContext(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete board invitations: %w", err)
	}

	return nil
}
