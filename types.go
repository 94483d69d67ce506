package login

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator is the workflow surface the HTTP boundary depends on.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Signup(ctx context.Context, email, password, firstName, lastName string) (*SignupResult, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// TokenService issues and verifies the bearer tokens handed out at login.
type TokenService interface {
	Issue(subject string) (string, error)
	Subject(token string) (string, error)
	Validate(token string) bool
	ExpiresIn() int64
}

// Users is the credential store: user records keyed by email.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, record *User) (*User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] LOGIN "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] LOGIN "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] LOGIN "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
