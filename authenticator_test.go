package login_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	login "github.com/goliatone/go-login"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// memUsers is an in-memory Users stub keyed by email, matching the
// store contract without a database.
type memUsers struct {
	records map[string]*login.User
}

func newMemUsers() *memUsers {
	return &memUsers{records: map[string]*login.User{}}
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*login.User, error) {
	record, ok := s.records[email]
	if !ok {
		return nil, login.ErrUserNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := s.records[email]
	return ok, nil
}

func (s *memUsers) Save(ctx context.Context, record *login.User) (*login.User, error) {
	if record.ID == uuid.Nil {
		if _, ok := s.records[record.Email]; ok {
			return nil, login.ErrDuplicateEmail
		}
		record.ID = uuid.New()
	}
	clone := *record
	s.records[record.Email] = &clone
	return record, nil
}

func (s *memUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	for email, record := range s.records {
		if record.ID == id {
			delete(s.records, email)
		}
	}
	return nil
}

func (s *memUsers) Count(ctx context.Context) (int, error) {
	return len(s.records), nil
}

var _ login.Users = (*memUsers)(nil)

func newTestAuther(store login.Users) (*login.Auther, login.TokenService) {
	tokens := login.NewTokenService([]byte("test-signing-key"), 0, &MockLogger{})
	auther := login.NewAuthenticator(store, tokens).
		WithBcryptCost(bcrypt.MinCost).
		WithLogger(&MockLogger{})
	return auther, tokens
}

func TestAuther_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("persists an active user and echoes identity fields", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		res, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "a@x.com", res.Email)
		assert.Equal(t, "A", res.FirstName)
		assert.Equal(t, "B", res.LastName)
		assert.Equal(t, "User registered successfully", res.Message)

		record := store.records["a@x.com"]
		assert.NotNil(t, record)
		assert.True(t, record.Active)
		assert.Equal(t, record.CreatedAt, record.UpdatedAt)
		assert.NotZero(t, record.CreatedAt)
	})

	t.Run("never stores the plaintext password", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")
		assert.NoError(t, err)

		record := store.records["a@x.com"]
		assert.NotEqual(t, "pw123", record.PasswordHash)
		assert.NoError(t, login.ComparePasswordAndHash("pw123", record.PasswordHash))
	})

	t.Run("second signup with the same email fails with one record kept", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")
		assert.NoError(t, err)

		_, err = auther.Signup(ctx, "a@x.com", "other", "C", "D")
		assert.True(t, login.IsDuplicateEmail(err))

		count, err := store.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("empty password is rejected before hashing", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "", "A", "B")
		assert.Error(t, err)

		count, _ := store.Count(ctx)
		assert.Equal(t, 0, count)
	})

	t.Run("empty email is a legal store key", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		res, err := auther.Signup(ctx, "", "pw123", "A", "B")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "", res.Email)
	})
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("signed up credentials log back in", func(t *testing.T) {
		store := newMemUsers()
		auther, tokens := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")
		assert.NoError(t, err)

		res, err := auther.Login(ctx, "a@x.com", "pw123")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "a@x.com", res.Email)
		assert.Equal(t, "A", res.FirstName)
		assert.Equal(t, "B", res.LastName)
		assert.Equal(t, int64(86400000), res.ExpiresIn)

		assert.True(t, tokens.Validate(res.Token))

		subject, err := tokens.Subject(res.Token)
		assert.NoError(t, err)
		assert.Equal(t, "a@x.com", subject)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")
		assert.NoError(t, err)

		_, errUnknown := auther.Login(ctx, "nobody@x.com", "pw123")
		_, errWrongPw := auther.Login(ctx, "a@x.com", "wrong")

		assert.True(t, login.IsAuthenticationFailed(errUnknown))
		assert.True(t, login.IsAuthenticationFailed(errWrongPw))
		assert.Equal(t, errUnknown, errWrongPw)
	})

	t.Run("empty password fails even when the stored hash would verify it", func(t *testing.T) {
		// Hash of the empty string, minted around the exported helper,
		// which refuses empty input.
		emptyHash, err := bcrypt.GenerateFromPassword([]byte(""), bcrypt.MinCost)
		assert.NoError(t, err)

		store := newMemUsers()
		store.records["empty@x.com"] = &login.User{
			ID:           uuid.New(),
			Email:        "empty@x.com",
			PasswordHash: string(emptyHash),
			Active:       true,
		}

		auther, _ := newTestAuther(store)

		_, err = auther.Login(ctx, "empty@x.com", "")
		assert.True(t, login.IsAuthenticationFailed(err))
	})
}

func TestAuther_Login_StoreFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("store failures are not credential failures", func(t *testing.T) {
		store := &MockUsers{}
		store.On("FindByEmail", ctx, "a@x.com").
			Return(nil, errors.New("connection refused", errors.CategoryInternal))

		auther, _ := newTestAuther(store)

		_, err := auther.Login(ctx, "a@x.com", "pw123")
		assert.Error(t, err)
		assert.False(t, login.IsAuthenticationFailed(err))
		store.AssertExpectations(t)
	})

	t.Run("corrupt stored hash is not a credential failure", func(t *testing.T) {
		store := newMemUsers()
		store.records["a@x.com"] = &login.User{
			ID:           uuid.New(),
			Email:        "a@x.com",
			PasswordHash: "not-a-bcrypt-hash",
			Active:       true,
		}

		auther, _ := newTestAuther(store)

		_, err := auther.Login(ctx, "a@x.com", "pw123")
		assert.Error(t, err)
		assert.False(t, login.IsAuthenticationFailed(err))

		var ge *errors.Error
		assert.True(t, errors.As(err, &ge))
		assert.Equal(t, errors.CategoryInternal, ge.Category)
	})
}

func TestAuther_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored record", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.Signup(ctx, "a@x.com", "pw123", "A", "B")
		assert.NoError(t, err)

		user, err := auther.GetUserByEmail(ctx, "a@x.com")
		assert.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("misses surface as not found", func(t *testing.T) {
		store := newMemUsers()
		auther, _ := newTestAuther(store)

		_, err := auther.GetUserByEmail(ctx, "nobody@x.com")
		assert.True(t, login.IsUserNotFound(err))
	})
}
