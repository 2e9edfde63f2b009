package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// UserHandler handles account requests
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetCurrentUser returns the authenticated user's profile
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// GetUser returns a user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser updates the authenticated user's profile
func (h *UserHandler) UpdateCurrentUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Update user failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword verifies and replaces the user's password
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// SearchUsers finds users by username, email or name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")

	users, err := h.userService.SearchUsers(c.Request().Context(), query)
	if err != nil {
		h.logger.Errorw("User search failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, users)
}
