package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskboard/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Search(ctx context.Context, query string, limit int) ([]*entities.User, error)
}

// BoardRepository defines the interface for board and membership data
// operations. Mutations that must be atomic with other writes accept a
// transaction.
type BoardRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, board *entities.Board) error
	GetByID(ctx context.Context, id int) (*entities.Board, error)
	Update(ctx context.Context, board *entities.Board) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*entities.Board, error)

	GetMembership(ctx context.Context, userID uuid.UUID, boardID int) (*entities.BoardMembership, error)
	ListMemberships(ctx context.Context, boardID int) ([]entities.BoardMembership, error)
	AddMembership(ctx context.Context, tx *sqlx.Tx, m *entities.BoardMembership) error
	RemoveMembership(ctx context.Context, userID uuid.UUID, boardID int) error
	DeleteMemberships(ctx context.Context, tx *sqlx.Tx, boardID int) error
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id int) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	ListForBoard(ctx context.Context, boardID int) ([]*entities.Task, error)
	DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error

	GetCollaborators(ctx context.Context, taskID int) ([]entities.User, error)
	AddCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error
}

// InvitationRepository defines the interface for board invitation data
// operations
type InvitationRepository interface {
	Create(ctx context.Context, inv *entities.BoardInvitation) error
	GetByID(ctx context.Context, id int) (*entities.BoardInvitation, error)
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, id int, status entities.InvitationStatus) error
	HasPending(ctx context.Context, boardID int, inviteeEmail string) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID, email string) ([]*entities.BoardInvitation, error)
	DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error
}

// AuthRepository defines the interface for refresh token operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// TaskFilter narrows and orders task listings. Search matches title and
// description case-insensitively. From/To select tasks whose date span
// overlaps the window; with DatesWithin set, only tasks whose start or
// end date itself falls inside the window match.
type TaskFilter struct {
	Search      *string
	Status      *entities.TaskStatus
	Priority    *entities.Priority
	BoardID     *int
	From        *time.Time
	To          *time.Time
	DatesWithin bool
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// RefreshToken represents a stored refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
