package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

func loggerForTests() *logger.Logger { return logger.NewNop() }

// In-memory repository fakes. They mirror the Postgres implementations
// closely enough that the service invariants can be exercised without a
// database.

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

// memUserRepo

type memUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) Update(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) Search(ctx context.Context, query string, limit int) ([]*entities.User, error) {
	var out []*entities.User
	q := strings.ToLower(query)
	for _, u := range r.users {
		hay := strings.ToLower(u.Username + " " + u.Email)
		if u.FirstName != nil {
			hay += " " + strings.ToLower(*u.FirstName)
		}
		if u.LastName != nil {
			hay += " " + strings.ToLower(*u.LastName)
		}
		if strings.Contains(hay, q) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memAuthRepo

type memAuthRepo struct {
	tokens map[string]*ports.RefreshToken
	nextID int
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{tokens: make(map[string]*ports.RefreshToken), nextID: 1}
}

func (r *memAuthRepo) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.tokens[tokenHash] = &ports.RefreshToken{
		ID:        r.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.nextID++
	return nil
}

func (r *memAuthRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*ports.RefreshToken, error) {
	if t, ok := r.tokens[tokenHash]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, errors.New("refresh token not found")
}

func (r *memAuthRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if t, ok := r.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *memAuthRepo) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

// memBoardRepo

type memBoardRepo struct {
	boards      map[int]*entities.Board
	memberships []*entities.BoardMembership
	nextBoardID int
	nextMemID   int
}

func newMemBoardRepo() *memBoardRepo {
	return &memBoardRepo{boards: make(map[int]*entities.Board), nextBoardID: 1, nextMemID: 1}
}

func (r *memBoardRepo) Create(ctx context.Context, tx *sqlx.Tx, board *entities.Board) error {
	board.ID = r.nextBoardID
	r.nextBoardID++
	now := time.Now()
	board.CreatedAt = now
	board.UpdatedAt = now
	cp := *board
	r.boards[board.ID] = &cp
	return nil
}

func (r *memBoardRepo) GetByID(ctx context.Context, id int) (*entities.Board, error) {
	if b, ok := r.boards[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, entities.ErrBoardNotFound
}

func (r *memBoardRepo) Update(ctx context.Context, board *entities.Board) error {
	if _, ok := r.boards[board.ID]; !ok {
		return entities.ErrBoardNotFound
	}
	board.UpdatedAt = time.Now()
	cp := *board
	r.boards[board.ID] = &cp
	return nil
}

func (r *memBoardRepo) Delete(ctx context.Context, tx *sqlx.Tx, id int) error {
	if _, ok := r.boards[id]; !ok {
		return entities.ErrBoardNotFound
	}
	delete(r.boards, id)
	return nil
}

func (r *memBoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*entities.Board, error) {
	var out []*entities.Board
	for _, m := range r.memberships {
		if m.UserID == userID {
			if b, ok := r.boards[m.BoardID]; ok {
				cp := *b
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *memBoardRepo) GetMembership(ctx context.Context, userID uuid.UUID, boardID int) (*entities.BoardMembership, error) {
	for _, m := range r.memberships {
		if m.UserID == userID && m.BoardID == boardID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, entities.ErrMembershipNotFound
}

func (r *memBoardRepo) ListMemberships(ctx context.Context, boardID int) ([]entities.BoardMembership, error) {
	var out []entities.BoardMembership
	for _, m := range r.memberships {
		if m.BoardID == boardID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memBoardRepo) AddMembership(ctx context.Context, tx *sqlx.Tx, m *entities.BoardMembership) error {
	for _, existing := range r.memberships {
		if existing.UserID == m.UserID && existing.BoardID == m.BoardID {
			return entities.ErrAlreadyMember
		}
	}
	m.ID = r.nextMemID
	r.nextMemID++
	m.JoinedAt = time.Now()
	cp := *m
	r.memberships = append(r.memberships, &cp)
	return nil
}

func (r *memBoardRepo) RemoveMembership(ctx context.Context, userID uuid.UUID, boardID int) error {
	for i, m := range r.memberships {
		if m.UserID == userID && m.BoardID == boardID {
			r.memberships = append(r.memberships[:i], r.memberships[i+1:]...)
			return nil
		}
	}
	return entities.ErrMembershipNotFound
}

func (r *memBoardRepo) DeleteMemberships(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.BoardID != boardID {
			kept = append(kept, m)
		}
	}
	r.memberships = kept
	return nil
}

// memTaskRepo

type memTaskRepo struct {
	tasks         map[int]*entities.Task
	collaborators map[int][]uuid.UUID
	boardRepo     *memBoardRepo
	nextID        int
}

func newMemTaskRepo(boardRepo *memBoardRepo) *memTaskRepo {
	return &memTaskRepo{
		tasks:         make(map[int]*entities.Task),
		collaborators: make(map[int][]uuid.UUID),
		boardRepo:     boardRepo,
		nextID:        1,
	}
}

func (r *memTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	task.ID = r.nextID
	r.nextID++
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepo) withCollaborators(t *entities.Task) *entities.Task {
	cp := *t
	cp.Collaborators = nil
	for _, id := range r.collaborators[t.ID] {
		cp.Collaborators = append(cp.Collaborators, entities.User{ID: id})
	}
	return &cp
}

func (r *memTaskRepo) GetByID(ctx context.Context, id int) (*entities.Task, error) {
	if t, ok := r.tasks[id]; ok {
		return r.withCollaborators(t), nil
	}
	return nil, entities.ErrTaskNotFound
}

func (r *memTaskRepo) Update(ctx context.Context, task *entities.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	cp := *task
	cp.Collaborators = nil
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	delete(r.collaborators, id)
	return nil
}

func (r *memTaskRepo) visible(t *entities.Task, userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, id := range r.collaborators[t.ID] {
		if id == userID {
			return true
		}
	}
	if t.BoardID != nil {
		if _, err := r.boardRepo.GetMembership(context.Background(), userID, *t.BoardID); err == nil {
			return true
		}
	}
	return false
}

func (r *memTaskRepo) List(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range r.tasks {
		if !r.visible(t, userID) {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			q := strings.ToLower(*filter.Search)
			hay := strings.ToLower(t.Title)
			if t.Description != nil {
				hay += " " + strings.ToLower(*t.Description)
			}
			if !strings.Contains(hay, q) {
				continue
			}
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.BoardID != nil && (t.BoardID == nil || *t.BoardID != *filter.BoardID) {
			continue
		}
		if filter.From != nil && filter.To != nil {
			if filter.DatesWithin {
				if !t.HasDateIn(*filter.From, *filter.To) {
					continue
				}
			} else if !t.InDateRange(*filter.From, *filter.To) {
				continue
			}
		}
		out = append(out, r.withCollaborators(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskRepo) ListForBoard(ctx context.Context, boardID int) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range r.tasks {
		if t.BoardID != nil && *t.BoardID == boardID {
			out = append(out, r.withCollaborators(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskRepo) DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	for id, t := range r.tasks {
		if t.BoardID != nil && *t.BoardID == boardID {
			delete(r.tasks, id)
			delete(r.collaborators, id)
		}
	}
	return nil
}

func (r *memTaskRepo) GetCollaborators(ctx context.Context, taskID int) ([]entities.User, error) {
	var out []entities.User
	for _, id := range r.collaborators[taskID] {
		out = append(out, entities.User{ID: id})
	}
	return out, nil
}

func (r *memTaskRepo) AddCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error {
	for _, id := range r.collaborators[taskID] {
		if id == userID {
			return nil
		}
	}
	r.collaborators[taskID] = append(r.collaborators[taskID], userID)
	return nil
}

func (r *memTaskRepo) RemoveCollaborator(ctx context.Context, taskID int, userID uuid.UUID) error {
	ids := r.collaborators[taskID]
	for i, id := range ids {
		if id == userID {
			r.collaborators[taskID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

// memInvitationRepo

type memInvitationRepo struct {
	invitations map[int]*entities.BoardInvitation
	nextID      int
}

func newMemInvitationRepo() *memInvitationRepo {
	return &memInvitationRepo{invitations: make(map[int]*entities.BoardInvitation), nextID: 1}
}

func (r *memInvitationRepo) Create(ctx context.Context, inv *entities.BoardInvitation) error {
	for _, existing := range r.invitations {
		if existing.BoardID == inv.BoardID &&
			strings.EqualFold(existing.InviteeEmail, inv.InviteeEmail) &&
			existing.Status == entities.InvitationPending {
			return entities.ErrDuplicateInvitation
		}
	}
	inv.ID = r.nextID
	r.nextID++
	inv.CreatedAt = time.Now()
	cp := *inv
	r.invitations[inv.ID] = &cp
	return nil
}

func (r *memInvitationRepo) GetByID(ctx context.Context, id int) (*entities.BoardInvitation, error) {
	if inv, ok := r.invitations[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, entities.ErrInvitationNotFound
}

func (r *memInvitationRepo) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id int, status entities.InvitationStatus) error {
	inv, ok := r.invitations[id]
	if !ok {
		return entities.ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

func (r *memInvitationRepo) HasPending(ctx context.Context, boardID int, inviteeEmail string) (bool, error) {
	for _, inv := range r.invitations {
		if inv.BoardID == boardID &&
			strings.EqualFold(inv.InviteeEmail, inviteeEmail) &&
			inv.Status == entities.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvitationRepo) ListForUser(ctx context.Context, userID uuid.UUID, email string) ([]*entities.BoardInvitation, error) {
	var out []*entities.BoardInvitation
	for _, inv := range r.invitations {
		if inv.InviterID == userID || strings.EqualFold(inv.InviteeEmail, email) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memInvitationRepo) DeleteForBoard(ctx context.Context, tx *sqlx.Tx, boardID int) error {
	for id, inv := range r.invitations {
		if inv.BoardID == boardID {
			delete(r.invitations, id)
		}
	}
	return nil
}

// test environment wiring

type env struct {
	users       *memUserRepo
	boards      *memBoardRepo
	tasks       *memTaskRepo
	invitations *memInvitationRepo

	boardSvc      *BoardService
	invitationSvc *InvitationService
	taskSvc       *TaskService
	userSvc       *UserService
}

func newEnv() *env {
	users := newMemUserRepo()
	boards := newMemBoardRepo()
	tasks := newMemTaskRepo(boards)
	invitations := newMemInvitationRepo()
	log := loggerForTests()

	return &env{
		users:         users,
		boards:        boards,
		tasks:         tasks,
		invitations:   invitations,
		boardSvc:      NewBoardService(boards, tasks, invitations, users, fakeTx{}, log),
		invitationSvc: NewInvitationService(invitations, boards, users, fakeTx{}, log),
		taskSvc:       NewTaskService(tasks, boards, users, log),
		userSvc:       NewUserService(users, log),
	}
}

func (e *env) addUser(username, email string) *entities.User {
	u := &entities.User{ID: uuid.New(), Username: username, Email: email}
	e.users.Create(context.Background(), u)
	return u
}
