package login

import "github.com/goliatone/go-errors"

const (
	TextCodeAuthFailed     = "login_auth_failed"
	TextCodeDuplicateEmail = "login_duplicate_email"
	TextCodeUserNotFound   = "login_user_not_found"
	TextCodeInvalidToken   = "login_invalid_token"
	TextCodeEmptyPassword  = "login_empty_password"
)

// ErrAuthenticationFailed covers both unknown emails and wrong
// passwords; callers cannot tell the two branches apart.
var ErrAuthenticationFailed = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateEmail is returned when a signup collides with an
// existing account.
var ErrDuplicateEmail = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned by direct lookups that miss.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidToken is returned when decoding a malformed, unsigned, or
// incorrectly signed token.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyPassword rejects empty passwords before they reach the
// hashing layer.
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsAuthenticationFailed will check for the single externally visible
// credential failure kind.
func IsAuthenticationFailed(err error) bool {
	return hasTextCode(err, TextCodeAuthFailed)
}

// IsDuplicateEmail will check for signup collisions.
func IsDuplicateEmail(err error) bool {
	return hasTextCode(err, TextCodeDuplicateEmail)
}

// IsUserNotFound will check for lookup misses.
func IsUserNotFound(err error) bool {
	return hasTextCode(err, TextCodeUserNotFound)
}

// IsInvalidToken will check for token decode failures.
func IsInvalidToken(err error) bool {
	return hasTextCode(err, TextCodeInvalidToken)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}

	return richErr.TextCode == code
}
