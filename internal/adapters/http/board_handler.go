package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// BoardHandler handles board and membership requests
type BoardHandler struct {
	boardService      ports.BoardService
	invitationService ports.InvitationService
	logger            *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService ports.BoardService, invitationService ports.InvitationService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService:      boardService,
		invitationService: invitationService,
		logger:            logger,
	}
}

// CreateBoard creates a board owned by the caller
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	var req ports.CreateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	board, err := h.boardService.CreateBoard(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		h.logger.Errorw("Create board failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, board)
}

// GetBoard returns a board with its member roster
func (h *BoardHandler) GetBoard(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	board, err := h.boardService.GetBoard(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, board)
}

// UpdateBoard updates board attributes
func (h *BoardHandler) UpdateBoard(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	board, err := h.boardService.UpdateBoard(c.Request().Context(), getUserIDFromContext(c), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, board)
}

// DeleteBoard deletes a board and everything scoped to it
func (h *BoardHandler) DeleteBoard(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.boardService.DeleteBoard(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return domainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListBoards returns the caller's boards
func (h *BoardHandler) ListBoards(c echo.Context) error {
	boards, err := h.boardService.ListBoards(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("List boards failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, boards)
}

// ListBoardTasks returns a board's tasks
func (h *BoardHandler) ListBoardTasks(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.boardService.ListBoardTasks(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// AddMember adds a registered user to a board
func (h *BoardHandler) AddMember(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	membership, err := h.boardService.AddMember(c.Request().Context(), getUserIDFromContext(c), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, membership)
}

// RemoveMember removes a user from a board
func (h *BoardHandler) RemoveMember(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.boardService.RemoveMember(c.Request().Context(), getUserIDFromContext(c), id, targetID); err != nil {
		return domainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Invite offers board membership to an email address
func (h *BoardHandler) Invite(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.invitationService.Invite(c.Request().Context(), getUserIDFromContext(c), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, result)
}
