package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

// stubTaskService lets each test plug in just the method it exercises.
type stubTaskService struct {
	getTask    func(ctx context.Context, actorID uuid.UUID, id int) (*entities.Task, error)
	createTask func(ctx context.Context, actorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, actorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	return s.createTask(ctx, actorID, req)
}

func (s *stubTaskService) GetTask(ctx context.Context, actorID uuid.UUID, id int) (*entities.Task, error) {
	return s.getTask(ctx, actorID, id)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, actorID uuid.UUID, id int, req ports.UpdateTaskRequest) (*entities.Task, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTaskService) DeleteTask(ctx context.Context, actorID uuid.UUID, id int) error {
	return errors.New("not implemented")
}

func (s *stubTaskService) ListTasks(ctx context.Context, actorID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTaskService) AddCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error {
	return errors.New("not implemented")
}

func (s *stubTaskService) RemoveCollaborator(ctx context.Context, actorID uuid.UUID, taskID int, userID uuid.UUID) error {
	return errors.New("not implemented")
}

func (s *stubTaskService) Calendar(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]*entities.Task, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTaskService) Upcoming(ctx context.Context, actorID uuid.UUID) ([]*entities.Task, error) {
	return nil, errors.New("not implemented")
}

func TestDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{entities.ErrTaskNotFound, http.StatusNotFound},
		{entities.ErrBoardNotFound, http.StatusNotFound},
		{entities.ErrForbidden, http.StatusForbidden},
		{entities.ErrUnauthenticated, http.StatusUnauthorized},
		{entities.ErrAlreadyMember, http.StatusConflict},
		{entities.ErrDuplicateInvitation, http.StatusConflict},
		{entities.ErrEmailTaken, http.StatusConflict},
		{entities.ErrCannotRemoveOwner, http.StatusBadRequest},
		{entities.ErrInvitationResolved, http.StatusBadRequest},
		{entities.ErrWrongPassword, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			var httpErr *echo.HTTPError
			require.ErrorAs(t, domainError(tc.err), &httpErr)
			assert.Equal(t, tc.code, httpErr.Code)
		})
	}

	// Wrapped errors map the same way.
	wrapped := domainError(errors.Join(errors.New("context"), entities.ErrForbidden))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, wrapped, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	// Unknown errors pass through for the central handler to treat as 500.
	plain := errors.New("boom")
	assert.Equal(t, plain, domainError(plain))
}

func TestGetTaskHandler(t *testing.T) {
	actorID := uuid.New()
	task := &entities.Task{ID: 42, Title: "Write docs", OwnerID: actorID}

	handler := NewTaskHandler(&stubTaskService{
		getTask: func(ctx context.Context, gotActor uuid.UUID, id int) (*entities.Task, error) {
			assert.Equal(t, actorID, gotActor)
			if id != task.ID {
				return nil, entities.ErrTaskNotFound
			}
			return task, nil
		},
	}, logger.NewNop())

	c, rec := newTestContext(http.MethodGet, "/api/v1/tasks/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user", actorID.String())

	require.NoError(t, handler.GetTask(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Write docs")

	c, _ = newTestContext(http.MethodGet, "/api/v1/tasks/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")
	c.Set("user", actorID.String())

	err := handler.GetTask(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)

	c, _ = newTestContext(http.MethodGet, "/api/v1/tasks/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err = handler.GetTask(c)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateTaskHandlerValidation(t *testing.T) {
	handler := NewTaskHandler(&stubTaskService{
		createTask: func(ctx context.Context, actorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
			return &entities.Task{ID: 1, Title: req.Title, OwnerID: actorID}, nil
		},
	}, logger.NewNop())

	c, rec := newTestContext(http.MethodPost, "/api/v1/tasks", `{"title":"Ship it"}`)
	c.Set("user", uuid.New().String())

	require.NoError(t, handler.CreateTask(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Title is required.
	c, _ = newTestContext(http.MethodPost, "/api/v1/tasks", `{"description":"no title"}`)
	c.Set("user", uuid.New().String())

	err := handler.CreateTask(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
