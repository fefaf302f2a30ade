package schema

import (
	"fmt"
	"strconv"
)

// AuthErrorKind classifies authentication failures raised by the access layer.
type AuthErrorKind string

const (
	// TokenMissing is raised when an authenticated call has no access token to send.
	TokenMissing AuthErrorKind = "TokenMissing"
	// MissingRefreshToken is raised when a refresh is attempted without a stored refresh token.
	MissingRefreshToken AuthErrorKind = "MissingRefreshToken"
	// RefreshRejected is raised when the refresh endpoint answers with a non-2xx status.
	RefreshRejected AuthErrorKind = "RefreshRejected"
	// ReauthenticationFailed is raised by the dispatcher when a 401 could not be recovered by a refresh.
	ReauthenticationFailed AuthErrorKind = "ReauthenticationFailed"
)

var (
	ErrTokenMissing           = &AuthError{Kind: TokenMissing}
	ErrMissingRefreshToken    = &AuthError{Kind: MissingRefreshToken}
	ErrRefreshRejected        = &AuthError{Kind: RefreshRejected}
	ErrReauthenticationFailed = &AuthError{Kind: ReauthenticationFailed}
)

// AuthError represents an authentication failure
type AuthError struct {
	Kind   AuthErrorKind
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	var msg string
	switch e.Kind {
	case TokenMissing:
		msg = "token missing"
	case MissingRefreshToken:
		msg = "refresh token missing"
	case RefreshRejected:
		msg = "token refresh failed"
	case ReauthenticationFailed:
		msg = "authentication failed, please login again"
	default:
		msg = "authentication error"
	}
	if e.Status != 0 {
		msg += ": status " + strconv.Itoa(e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind, so the package sentinels work with errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewAuthError creates an auth error of the given kind
func NewAuthError(kind AuthErrorKind, status int, err error) *AuthError {
	return &AuthError{Kind: kind, Status: status, Err: err}
}

// APIError represents a non-2xx response of the remote API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error: %d", e.Status)
}

// NewAPIError creates an API error, falling back to a status-coded message when the body carried none.
func NewAPIError(status int, code, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("Error: %d", status)
	}
	return &APIError{Status: status, Code: code, Message: message}
}
