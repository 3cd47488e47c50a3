package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/verimail/email-auth/internal/auth"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type resendReq struct {
	Email string `json:"email"`
}

// statusFor maps a failure code to an HTTP status. Clients are
// expected to branch on the body's success/code fields; the status
// is a convenience for generic HTTP tooling.
func statusFor(code string) int {
	switch code {
	case auth.CodeDuplicateEmail, auth.CodeAlreadyVerified:
		return http.StatusConflict
	case auth.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case auth.CodeEmailNotVerified:
		return http.StatusForbidden
	case auth.CodeUserNotFound:
		return http.StatusNotFound
	case auth.CodeInvalidCode, auth.CodeExpiredCode:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

// Register: create an unverified user and queue the verification email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	res, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return storageError(c, err)
	}
	if !res.Success {
		return c.JSON(statusFor(res.Code), res)
	}
	return c.JSON(http.StatusCreated, res)
}

// Login: verify credentials, create a session, set the bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(statusFor(res.Code), res)
}

// Verify: confirm the emailed code.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
	}

	res, err := h.Auth.VerifyEmail(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(statusFor(res.Code), res)
}

// Resend: issue a fresh verification code, invalidating the old one.
func (h *AuthHandler) Resend(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	res, err := h.Auth.ResendCode(c.Request().Context(), req.Email)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(statusFor(res.Code), res)
}

// Logout: drop the current session, if any. Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context()); err != nil {
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me: resolve the current user from the bearer-token slot. Returns
// 204 when no valid session exists; clients call this once at
// startup to restore session state.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.Auth.CurrentUser(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}
	if user == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func storageError(c echo.Context, err error) error {
	c.Logger().Errorf("storage error: %v", err)
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
}
