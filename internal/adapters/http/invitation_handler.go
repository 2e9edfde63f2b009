package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// InvitationHandler handles invitation requests outside a board context
type InvitationHandler struct {
	invitationService ports.InvitationService
	logger            *logger.Logger
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService ports.InvitationService, logger *logger.Logger) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		logger:            logger,
	}
}

// ListMine returns invitations the caller sent or received
func (h *InvitationHandler) ListMine(c echo.Context) error {
	invitations, err := h.invitationService.ListMine(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("List invitations failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, invitations)
}

// Accept turns a pending invitation into a membership
func (h *InvitationHandler) Accept(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	membership, err := h.invitationService.Accept(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, membership)
}

// Decline marks a pending invitation declined
func (h *InvitationHandler) Decline(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.invitationService.Decline(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Invitation declined"})
}
