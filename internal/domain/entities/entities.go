package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrBoardNotFound       = errors.New("board not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrAlreadyMember       = errors.New("user is already a board member")
	ErrDuplicateInvitation = errors.New("a pending invitation already exists for this email")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrCannotRemoveOwner   = errors.New("the board owner cannot be removed")
	ErrInvitationResolved  = errors.New("invitation has already been accepted or declined")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrWrongPassword       = errors.New("wrong password")
)

// Enums and types
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    *string   `json:"first_name" db:"first_name"`
	LastName     *string   `json:"last_name" db:"last_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Board represents a named collection of tasks with a membership roster
type Board struct {
	ID          int               `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	Description *string           `json:"description" db:"description"`
	OwnerID     uuid.UUID         `json:"owner_id" db:"owner_id"`
	Owner       *User             `json:"owner,omitempty"`
	Members     []BoardMembership `json:"members,omitempty"`
	TaskCount   int               `json:"task_count" db:"task_count"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// BoardMembership binds a user to a board with a role.
// At most one membership exists per (user, board) pair.
type BoardMembership struct {
	ID       int        `json:"id" db:"id"`
	UserID   uuid.UUID  `json:"user_id" db:"user_id"`
	BoardID  int        `json:"board_id" db:"board_id"`
	Role     MemberRole `json:"role" db:"role"`
	JoinedAt time.Time  `json:"joined_at" db:"joined_at"`
	User     *User      `json:"user,omitempty"`
}

// Task represents a unit of work, optionally scoped to a board
type Task struct {
	ID            int        `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   *string    `json:"description" db:"description"`
	Priority      Priority   `json:"priority" db:"priority"`
	Status        TaskStatus `json:"status" db:"status"`
	StartDate     *time.Time `json:"start_date" db:"start_date"`
	EndDate       *time.Time `json:"end_date" db:"end_date"`
	OwnerID       uuid.UUID  `json:"owner_id" db:"owner_id"`
	BoardID       *int       `json:"board_id" db:"board_id"`
	Owner         *User      `json:"owner,omitempty"`
	Collaborators []User     `json:"collaborators,omitempty"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BoardInvitation is a pending offer of membership to an email address.
// Status transitions are one way: pending -> accepted or pending -> declined.
type BoardInvitation struct {
	ID           int              `json:"id" db:"id"`
	BoardID      int              `json:"board_id" db:"board_id"`
	InviterID    uuid.UUID        `json:"inviter_id" db:"inviter_id"`
	InviteeEmail string           `json:"invitee_email" db:"invitee_email"`
	Role         MemberRole       `json:"role" db:"role"`
	Status       InvitationStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	Board        *Board           `json:"board,omitempty"`
	Inviter      *User            `json:"inviter,omitempty"`
}

// Business logic methods for Task

// IsBoardScoped reports whether the task belongs to a board.
func (t *Task) IsBoardScoped() bool {
	return t.BoardID != nil
}

// IsCollaborator reports whether the given user is in the collaborator set.
func (t *Task) IsCollaborator(userID uuid.UUID) bool {
	for _, c := range t.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}

// InDateRange reports whether the task's date span overlaps [from, to].
// A task with no dates never matches; a missing start or end date falls
// back to the other bound.
func (t *Task) InDateRange(from, to time.Time) bool {
	if t.StartDate == nil && t.EndDate == nil {
		return false
	}
	start := t.StartDate
	end := t.EndDate
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}
	return !start.After(to) && !end.Before(from)
}

// HasDateIn reports whether the task's start or end date itself falls
// within [from, to]. Unlike InDateRange, a span that merely covers the
// window does not match.
func (t *Task) HasDateIn(from, to time.Time) bool {
	in := func(d *time.Time) bool {
		return d != nil && !d.Before(from) && !d.After(to)
	}
	return in(t.StartDate) || in(t.EndDate)
}

// Business logic methods for BoardInvitation

func (i *BoardInvitation) IsPending() bool {
	return i.Status == InvitationPending
}

// Accept marks the invitation accepted. Fails once resolved.
func (i *BoardInvitation) Accept() error {
	if !i.IsPending() {
		return ErrInvitationResolved
	}
	i.Status = InvitationAccepted
	return nil
}

// Decline marks the invitation declined. Fails once resolved.
func (i *BoardInvitation) Decline() error {
	if !i.IsPending() {
		return ErrInvitationResolved
	}
	i.Status = InvitationDeclined
	return nil
}

// Utility methods
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationDeclined:
		return true
	default:
		return false
	}
}
