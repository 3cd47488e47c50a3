package auth

import "github.com/verimail/email-auth/internal/model"

// Failure codes carried by Result. Callers branch on these (or on
// Success), never on message text; messages are display-only.
const (
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailNotVerified   = "email_not_verified"
	CodeUserNotFound       = "user_not_found"
	CodeAlreadyVerified    = "already_verified"
	CodeInvalidCode        = "invalid_code"
	CodeExpiredCode        = "code_expired"
)

// Result is the outcome of an auth operation. Expected failures
// (wrong code, duplicate email, ...) are results, not errors: every
// operation runs to completion and reports through this struct.
// Code is empty on success; User is set only by a successful login.
type Result struct {
	Success bool            `json:"success"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message"`
	User    *model.UserView `json:"user,omitempty"`
}

func failure(code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

func success(message string) Result {
	return Result{Success: true, Message: message}
}
