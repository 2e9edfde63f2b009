package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// UserService interface for account operations
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*entities.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	SearchUsers(ctx context.Context, query string) ([]*entities.User, error)
}

// BoardService interface for board and membership management
type BoardService interface {
	CreateBoard(ctx context.Context, actorID uuid.UUID, req CreateBoardRequest) (*entities.Board, error)
	GetBoard(ctx context.Context, actorID uuid.UUID, id int) (*entities.Board, error)
	UpdateBoard(ctx context.Context, actorID uuid.UUID, id int, req UpdateBoardRequest) (*entities.Board, error)
	DeleteBoard(ctx context.Context, actorID uuid.UUID, id int) error
	ListBoards(ctx context.Context, actorID uuid.UUID) ([]*entities.Board, error)
	ListBoardTasks(ctx context.Context, actorID uuid.UUID, id int) ([]*entities.Task, error)
	AddMember(ctx context.Context, actorID uuid.UUID, boardID int, req AddMemberRequest) (*entities.BoardMembership, error)
	RemoveMember(ctx context.Context, actorID uuid.UUID, boardID int, targetID uuid.UUID) error
}

// InvitationService interface for the board invitation workflow
type InvitationService interface {
	Invite(ctx context.Context, actorID uuid.UUID, boardID int, req InviteRequest) (*InviteResult, error)
	Accept(ctx context.Context, actorID uuid.UUID, invitationID int) (*entities.BoardMembership, error)
	Decline(ctx context.Context, actorID uuid.UUID, invitationID int) error
	ListMine(ctx context.Context, actorID uuid.UUID) ([]*entities.BoardInvitation, error)
}

// TaskService interface for task management
type TaskService interface {
	CreateTask(ctx context.Context, actorID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, actorID uuid.UUID, id int) (*entities.Task, error)
	UpdateTask(ctx context.Context, actorID uuid.UUID, id int, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, actorID uuid.UUID, id int) error
	ListTasks(ctx context.Context, actorID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	AddCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error
	Calendar(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]*entities.Task, error)
	Upcoming(ctx context.Context, actorID uuid.UUID) ([]*entities.Task, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// User related types
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Board related types
type CreateBoardRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type AddMemberRequest struct {
	UserID uuid.UUID           `json:"user_id" validate:"required"`
	Role   entities.MemberRole `json:"role" validate:"omitempty,oneof=admin member"`
}

// Invitation related types
type InviteRequest struct {
	InviteeEmail string              `json:"invitee_email" validate:"required,email"`
	Role         entities.MemberRole `json:"role" validate:"omitempty,oneof=admin member"`
}

// InviteResult reports which path the invite took: a direct membership when
// the email already has an account, otherwise a stored pending invitation.
type InviteResult struct {
	Membership *entities.BoardMembership `json:"membership,omitempty"`
	Invitation *entities.BoardInvitation `json:"invitation,omitempty"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Priority    entities.Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      entities.TaskStatus `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	StartDate   *time.Time          `json:"start_date"`
	EndDate     *time.Time          `json:"end_date"`
	BoardID     *int                `json:"board_id"`
}

type UpdateTaskRequest struct {
	Title       *string              `json:"title" validate:"omitempty,max=255"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
	Priority    *entities.Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *entities.TaskStatus `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
}

type CollaboratorRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
