package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verimail/email-auth/internal/auth"
	"github.com/verimail/email-auth/internal/store"
)

func newTestHandler(t *testing.T) *AuthHandler {
	t.Helper()
	dir := t.TempDir()
	fs := store.NewFileStore(
		filepath.Join(dir, "data.json"),
		filepath.Join(dir, "token"),
		bcrypt.MinCost,
	)
	svc, err := auth.NewService(context.Background(), fs, fs, auth.Config{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return NewAuthHandler(svc)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) auth.Result {
	t.Helper()
	var res auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decodeResult(t, rec)
	assert.True(t, res.Success)

	rec = doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	res = decodeResult(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, auth.CodeDuplicateEmail, res.Code)
}

func TestRegisterEndpointValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginVerifyMeFlow(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unverified login is rejected with an explicit code.
	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, auth.CodeEmailNotVerified, decodeResult(t, rec).Code)

	// Fish the code out of the audit log, as the debug endpoint would.
	logs := h.Auth.EmailLogs(ctx)
	require.NotEmpty(t, logs)
	code := logs[len(logs)-1].Code

	rec = doJSON(t, h.Verify, http.MethodPost, "/v1/auth/verify", `{"email":"a@x.com","code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResult(t, rec).Success)

	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "a@x.com", res.User.Email)

	rec = doJSON(t, h.Me, http.MethodGet, "/v1/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a@x.com"`)

	rec = doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.Me, http.MethodGet, "/v1/auth/me", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEndpointsTrimEmailConsistently(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	// Register trims, so the padded address is stored bare and the
	// other endpoints must land on the same record when padded too.
	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"  a@x.com ","password":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	logs := h.Auth.EmailLogs(ctx)
	require.NotEmpty(t, logs)
	require.Equal(t, "a@x.com", logs[0].Email)

	rec = doJSON(t, h.Resend, http.MethodPost, "/v1/auth/resend", `{"email":" a@x.com "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeResult(t, rec).Success)

	logs = h.Auth.EmailLogs(ctx)
	code := logs[len(logs)-1].Code

	rec = doJSON(t, h.Verify, http.MethodPost, "/v1/auth/verify", `{"email":" a@x.com","code":" `+code+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResult(t, rec).Success)
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"nobody@x.com","password":"p"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.CodeInvalidCredentials, decodeResult(t, rec).Code)
}

func TestDebugReset(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Reset, http.MethodPost, "/v1/debug/reset", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.Users, http.MethodGet, "/v1/debug/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), store.SeedEmail)
	assert.NotContains(t, rec.Body.String(), "a@x.com")
}
