package handler

import (
	"net/http"

	"authcore/api/middleware"
	"authcore/internal/dto"
	"authcore/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	Sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

func (h *SessionHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "not authorized")
	}
	currentID, _ := middleware.SessionIDFromContext(c)

	sessions, err := h.Sessions.ListFor(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SessionResponsesFromEntities(sessions, currentID))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "not authorized")
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusNotFound, "session not found")
	}
	if err := h.Sessions.RevokeFor(c.Request().Context(), sessionID, userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "session removed"})
}
