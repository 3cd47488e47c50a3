package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Users lists sanitized user records. Dev-only; registered behind
// the debug route group.
func (h *AuthHandler) Users(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"users": h.Auth.Users(c.Request().Context())})
}

// EmailLogs dumps the email audit log so a developer can read the
// verification code their "email" carried.
func (h *AuthHandler) EmailLogs(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"emailLogs": h.Auth.EmailLogs(c.Request().Context())})
}

// Reset restores the seed snapshot and clears the bearer token.
func (h *AuthHandler) Reset(c echo.Context) error {
	if err := h.Auth.Reset(c.Request().Context()); err != nil {
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
