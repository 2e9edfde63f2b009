package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/policy"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TxRunner runs a function inside a database transaction. Satisfied by
// database.DB.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// BoardService handles board and membership management
type BoardService struct {
	boardRepo      ports.BoardRepository
	taskRepo       ports.TaskRepository
	invitationRepo ports.InvitationRepository
	userRepo       ports.UserRepository
	tx             TxRunner
	logger         *logger.Logger
}

// NewBoardService creates a new board service
func NewBoardService(boardRepo ports.BoardRepository, taskRepo ports.TaskRepository, invitationRepo ports.InvitationRepository, userRepo ports.UserRepository, tx TxRunner, logger *logger.Logger) *BoardService {
	return &BoardService{
		boardRepo:      boardRepo,
		taskRepo:       taskRepo,
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		tx:             tx,
		logger:         logger,
	}
}

// CreateBoard creates a board and its owner membership in one transaction.
func (s *BoardService) CreateBoard(ctx context.Context, actorID uuid.UUID, req ports.CreateBoardRequest) (*entities.Board, error) {
	board := &entities.Board{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     actorID,
	}

	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.boardRepo.Create(ctx, tx, board); err != nil {
			return err
		}

		membership := &entities.BoardMembership{
			UserID:  actorID,
			BoardID: board.ID,
			Role:    entities.RoleOwner,
		}
		return s.boardRepo.AddMembership(ctx, tx, membership)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.logger.Infow("Board created", "board_id", board.ID, "owner_id", actorID)

	return board, nil
}

// GetBoard returns a board with its membership roster. Non-members cannot
// resolve the board at all.
func (s *BoardService) GetBoard(ctx context.Context, actorID uuid.UUID, id int) (*entities.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.boardRepo.GetMembership(ctx, actorID, id); err != nil {
		if errors.Is(err, entities.ErrMembershipNotFound) {
			return nil, entities.ErrBoardNotFound
		}
		return nil, err
	}

	members, err := s.boardRepo.ListMemberships(ctx, id)
	if err != nil {
		return nil, err
	}
	board.Members = members

	return board, nil
}

// UpdateBoard updates board attributes. Owner only.
func (s *BoardService) UpdateBoard(ctx context.Context, actorID uuid.UUID, id int, req ports.UpdateBoardRequest) (*entities.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanWriteOwned(actorID, board.OwnerID) {
		return nil, entities.ErrForbidden
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = req.Description
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	s.logger.Infow("Board updated", "board_id", board.ID)

	return board, nil
}

// DeleteBoard removes the board and everything scoped to it in one
// transaction: tasks first, then memberships, then invitations, then the
// board row, so no row ever references a deleted board.
func (s *BoardService) DeleteBoard(ctx context.Context, actorID uuid.UUID, id int) error {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanWriteOwned(actorID, board.OwnerID) {
		return entities.ErrForbidden
	}

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.taskRepo.DeleteForBoard(ctx, tx, id); err != nil {
			return err
		}
		if err := s.boardRepo.DeleteMemberships(ctx, tx, id); err != nil {
			return err
		}
		if err := s.invitationRepo.DeleteForBoard(ctx, tx, id); err != nil {
			return err
		}
		return s.boardRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.logger.Infow("Board deleted", "board_id", id, "actor_id", actorID)

	return nil
}

// ListBoards returns the boards the actor holds a membership on.
func (s *BoardService) ListBoards(ctx context.Context, actorID uuid.UUID) ([]*entities.Board, error) {
	boards, err := s.boardRepo.ListForUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	return boards, nil
}

// ListBoardTasks returns the board's tasks. Membership required.
func (s *BoardService) ListBoardTasks(ctx context.Context, actorID uuid.UUID, id int) ([]*entities.Task, error) {
	if _, err := s.boardRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if _, err := s.boardRepo.GetMembership(ctx, actorID, id); err != nil {
		if errors.Is(err, entities.ErrMembershipNotFound) {
			return nil, entities.ErrBoardNotFound
		}
		return nil, err
	}

	tasks, err := s.taskRepo.ListForBoard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list board tasks: %w", err)
	}

	return tasks, nil
}

// AddMember adds a user to the board. The target must not already hold a
// membership.
func (s *BoardService) AddMember(ctx context.Context, actorID uuid.UUID, boardID int, req ports.AddMemberRequest) (*entities.BoardMembership, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !policy.CanWriteOwned(actorID, board.OwnerID) {
		return nil, entities.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	if _, err := s.boardRepo.GetMembership(ctx, req.UserID, boardID); err == nil {
		return nil, entities.ErrAlreadyMember
	} else if !errors.Is(err, entities.ErrMembershipNotFound) {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entities.RoleMember
	}
	if !role.IsValid() || role == entities.RoleOwner {
		return nil, entities.ErrInvalidRole
	}

	membership := &entities.BoardMembership{
		UserID:  req.UserID,
		BoardID: boardID,
		Role:    role,
	}

	if err := s.boardRepo.AddMembership(ctx, nil, membership); err != nil {
		return nil, err
	}

	s.logger.Infow("Member added", "board_id", boardID, "user_id", req.UserID, "role", role)

	return membership, nil
}

// RemoveMember deletes a membership. The owner membership is never
// removable.
func (s *BoardService) RemoveMember(ctx context.Context, actorID uuid.UUID, boardID int, targetID uuid.UUID) error {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return err
	}

	if !policy.CanWriteOwned(actorID, board.OwnerID) {
		return entities.ErrForbidden
	}

	membership, err := s.boardRepo.GetMembership(ctx, targetID, boardID)
	if err != nil {
		return err
	}

	if !policy.CanRemoveMembership(membership) {
		return entities.ErrCannotRemoveOwner
	}

	if err := s.boardRepo.RemoveMembership(ctx, targetID, boardID); err != nil {
		return err
	}

	s.logger.Infow("Member removed", "board_id", boardID, "user_id", targetID)

	return nil
}
