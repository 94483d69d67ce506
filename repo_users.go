package login

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a Users store backed by the given Bun
// handle.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// CreateUsersTable creates the backing table and its unique email
// index. The index is what arbitrates concurrent signups racing on the
// same address; the workflow never does.
func CreateUsersTable(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}

	if _, err := db.NewCreateIndex().
		Model((*User)(nil)).
		Index("users_email_idx").
		Unique().
		IfNotExists().
		Column("email").
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create unique email index")
	}

	return nil
}

func (r *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by email")
	}

	return record, nil
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check email existence")
	}

	return exists, nil
}

// Save inserts the record when it has no id yet, assigning one, and
// updates it otherwise. Updates bump UpdatedAt; inserts leave the
// timestamps set by NewUser untouched.
func (r *users) Save(ctx context.Context, record *User) (*User, error) {
	if record == nil {
		return nil, errors.New("record must not be nil", errors.CategoryBadInput)
	}

	if record.ID == uuid.Nil {
		prepareUserDefaults(record)

		if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateEmail
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
		}

		return record, nil
	}

	record.UpdatedAt = nowMillis()

	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	return record, nil
}

func (r *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	return nil
}

func (r *users) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count users")
	}

	return count, nil
}

func prepareUserDefaults(record *User) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt == 0 {
		record.CreatedAt = nowMillis()
	}

	if record.UpdatedAt == 0 {
		record.UpdatedAt = record.CreatedAt
	}
}

// isUniqueViolation string-matches because database/sql drivers do not
// expose a portable constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: users.email")
}
