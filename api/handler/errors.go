package handler

import (
	"encoding/json"
	"net/http"

	"authcore/internal/apperror"
	"authcore/internal/dto"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.ErrorResponse{Message: message})
}

// writeServiceError is the single mapping from failure kinds to HTTP
// statuses. Unclassified errors never leak their text.
func writeServiceError(c echo.Context, err error) error {
	appErr, ok := apperror.From(err)
	if !ok {
		return writeError(c, http.StatusInternalServerError, "internal server error")
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperror.Conflict:
		status = http.StatusConflict
	case apperror.Unauthorized:
		status = http.StatusUnauthorized
	case apperror.NotFound:
		status = http.StatusNotFound
	case apperror.TooManyRequests:
		status = http.StatusTooManyRequests
	case apperror.Internal:
		status = http.StatusInternalServerError
	}
	return c.JSON(status, dto.ErrorResponse{
		Message:   appErr.Message,
		ErrorCode: string(appErr.Code),
	})
}
