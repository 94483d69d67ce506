package login

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record persisted by the Users store. Email is
// unique and case-sensitive as stored; CreatedAt and UpdatedAt are
// epoch milliseconds and equal at creation.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	FirstName     string    `bun:"first_name" json:"first_name,omitempty"`
	LastName      string    `bun:"last_name" json:"last_name,omitempty"`
	Active        bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt     int64     `bun:"created_at,notnull" json:"created_at,omitempty"`
	UpdatedAt     int64     `bun:"updated_at,notnull" json:"updated_at,omitempty"`
}

// NewUser builds an account record the way signup persists it:
// active, with matching creation and update timestamps.
func NewUser(email, passwordHash, firstName, lastName string) *User {
	now := nowMillis()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
