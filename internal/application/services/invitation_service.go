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

// InvitationService handles the board invitation workflow
type InvitationService struct {
	invitationRepo ports.InvitationRepository
	boardRepo      ports.BoardRepository
	userRepo       ports.UserRepository
	tx             TxRunner
	logger         *logger.Logger
}

// NewInvitationService creates a new invitation service
func NewInvitationService(invitationRepo ports.InvitationRepository, boardRepo ports.BoardRepository, userRepo ports.UserRepository, tx TxRunner, logger *logger.Logger) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		boardRepo:      boardRepo,
		userRepo:       userRepo,
		tx:             tx,
		logger:         logger,
	}
}

// Invite offers board membership to an email address. When the email
// already belongs to an account the membership is created directly and no
// invitation is stored; otherwise a pending invitation is recorded for the
// address to claim after registering.
func (s *InvitationService) Invite(ctx context.Context, actorID uuid.UUID, boardID int, req ports.InviteRequest) (*ports.InviteResult, error) {
	if _, err := s.boardRepo.GetByID(ctx, boardID); err != nil {
		return nil, err
	}

	inviterMembership, err := s.boardRepo.GetMembership(ctx, actorID, boardID)
	if err != nil {
		if errors.Is(err, entities.ErrMembershipNotFound) {
			return nil, entities.ErrForbidden
		}
		return nil, err
	}

	if !policy.CanInvite(inviterMembership.Role) {
		return nil, entities.ErrForbidden
	}

	role := req.Role
	if role == "" {
		role = entities.RoleMember
	}
	if !role.IsValid() || role == entities.RoleOwner {
		return nil, entities.ErrInvalidRole
	}

	pending, err := s.invitationRepo.HasPending(ctx, boardID, req.InviteeEmail)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, entities.ErrDuplicateInvitation
	}

	invitee, err := s.userRepo.GetByEmail(ctx, req.InviteeEmail)
	switch {
	case err == nil:
		// Registered address: the invite becomes a direct add.
		if _, err := s.boardRepo.GetMembership(ctx, invitee.ID, boardID); err == nil {
			return nil, entities.ErrAlreadyMember
		} else if !errors.Is(err, entities.ErrMembershipNotFound) {
			return nil, err
		}

		membership := &entities.BoardMembership{
			UserID:  invitee.ID,
			BoardID: boardID,
			Role:    role,
		}
		if err := s.boardRepo.AddMembership(ctx, nil, membership); err != nil {
			return nil, err
		}

		s.logger.Infow("Invite resolved to direct membership",
			"board_id", boardID, "invitee", req.InviteeEmail, "role", role)

		return &ports.InviteResult{Membership: membership}, nil

	case errors.Is(err, entities.ErrUserNotFound):
		invitation := &entities.BoardInvitation{
			BoardID:      boardID,
			InviterID:    actorID,
			InviteeEmail: req.InviteeEmail,
			Role:         role,
			Status:       entities.InvitationPending,
		}
		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			return nil, err
		}

		s.logger.Infow("Invitation created",
			"board_id", boardID, "invitation_id", invitation.ID, "invitee", req.InviteeEmail)

		return &ports.InviteResult{Invitation: invitation}, nil

	default:
		return nil, fmt.Errorf("resolve invitee: %w", err)
	}
}

// Accept resolves a pending invitation into a membership. The membership
// creation and the status flip commit together.
func (s *InvitationService) Accept(ctx context.Context, actorID uuid.UUID, invitationID int) (*entities.BoardMembership, error) {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !policy.CanAcceptInvitation(actor, invitation) {
		return nil, entities.ErrForbidden
	}

	if !invitation.IsPending() {
		return nil, entities.ErrInvitationResolved
	}

	if _, err := s.boardRepo.GetMembership(ctx, actorID, invitation.BoardID); err == nil {
		return nil, entities.ErrAlreadyMember
	} else if !errors.Is(err, entities.ErrMembershipNotFound) {
		return nil, err
	}

	membership := &entities.BoardMembership{
		UserID:  actorID,
		BoardID: invitation.BoardID,
		Role:    invitation.Role,
	}

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.boardRepo.AddMembership(ctx, tx, membership); err != nil {
			return err
		}
		return s.invitationRepo.UpdateStatus(ctx, tx, invitationID, entities.InvitationAccepted)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	s.logger.Infow("Invitation accepted",
		"invitation_id", invitationID, "board_id", invitation.BoardID, "user_id", actorID)

	return membership, nil
}

// Decline marks a pending invitation declined. No membership side effect.
func (s *InvitationService) Decline(ctx context.Context, actorID uuid.UUID, invitationID int) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	if !policy.CanAcceptInvitation(actor, invitation) {
		return entities.ErrForbidden
	}

	if !invitation.IsPending() {
		return entities.ErrInvitationResolved
	}

	if err := s.invitationRepo.UpdateStatus(ctx, nil, invitationID, entities.InvitationDeclined); err != nil {
		return err
	}

	s.logger.Infow("Invitation declined", "invitation_id", invitationID, "user_id", actorID)

	return nil
}

// ListMine returns invitations the actor sent or received.
func (s *InvitationService) ListMine(ctx context.Context, actorID uuid.UUID) ([]*entities.BoardInvitation, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.ListForUser(ctx, actorID, actor.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}
