package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
)

// domainError translates domain sentinel errors into HTTP errors. Anything
// unrecognized surfaces as a 500 through the central error handler.
func domainError(err error) error {
	switch {
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrBoardNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrMembershipNotFound),
		errors.Is(err, entities.ErrInvitationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, entities.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action")

	case errors.Is(err, entities.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")

	case errors.Is(err, entities.ErrAlreadyMember),
		errors.Is(err, entities.ErrDuplicateInvitation),
		errors.Is(err, entities.ErrEmailTaken),
		errors.Is(err, entities.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, entities.ErrCannotRemoveOwner),
		errors.Is(err, entities.ErrInvitationResolved),
		errors.Is(err, entities.ErrInvalidRole),
		errors.Is(err, entities.ErrInvalidPriority),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrWrongPassword):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return err
}

func getUserIDFromContext(c echo.Context) uuid.UUID {
	user := c.Get("user")
	if user == nil {
		return uuid.Nil
	}

	if userStr, ok := user.(string); ok {
		userID, _ := uuid.Parse(userStr)
		return userID
	}

	return uuid.Nil
}

// intParam parses a numeric path parameter.
func intParam(c echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return value, nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
