package login

import (
	"context"

	"github.com/goliatone/go-errors"
)

// SignupSuccessMessage is echoed in the signup response body.
const SignupSuccessMessage = "User registered successfully"

// LoginResult is what a successful login hands back to the boundary.
type LoginResult struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ExpiresIn int64  `json:"expires_in"`
}

// SignupResult is what a successful signup hands back to the boundary.
type SignupResult struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Message   string `json:"message"`
}

// Auther orchestrates signup and login against the credential store
// and the token service. Both collaborators are plain interfaces held
// by reference, constructed once at process startup.
type Auther struct {
	store      Users
	tokens     TokenService
	bcryptCost int
	logger     Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store Users, tokens TokenService) *Auther {
	return &Auther{
		store:      store,
		tokens:     tokens,
		bcryptCost: passwordHashCost(),
		logger:     defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithBcryptCost overrides the hashing cost factor used at signup.
func (s *Auther) WithBcryptCost(cost int) *Auther {
	if cost > 0 {
		s.bcryptCost = cost
	}
	return s
}

// Login verifies the credentials and issues a token for the account's
// email. Unknown emails and mismatched passwords both surface as
// ErrAuthenticationFailed so callers cannot enumerate accounts.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if IsUserNotFound(err) {
			s.logger.Debug("Login unknown email", "email", email)
			return nil, ErrAuthenticationFailed
		}
		s.logger.Error("Login lookup error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	// An empty password never short-circuits into a match, even for a
	// record whose stored hash would verify it.
	if password == "" {
		return nil, ErrAuthenticationFailed
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if IsAuthenticationFailed(err) {
			s.logger.Debug("Login password mismatch", "email", email)
			return nil, ErrAuthenticationFailed
		}
		// A compare failure that is not a mismatch means the stored
		// hash is unusable, which is an operational fault.
		s.logger.Error("Login password compare error", "error", err)
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error("Login token issue error", "error", err)
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ExpiresIn: s.tokens.ExpiresIn(),
	}, nil
}

// Signup hashes the password and persists a new active account. The
// plaintext is never stored or logged. Email format is deliberately
// not validated here; the store accepts any key, including the empty
// string.
func (s *Auther) Signup(ctx context.Context, email, password, firstName, lastName string) (*SignupResult, error) {
	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Signup existence check error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
	}

	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPasswordCost(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Save(ctx, NewUser(email, hash, firstName, lastName))
	if err != nil {
		// Save reports ErrDuplicateEmail when a concurrent signup won
		// the race on the unique index.
		s.logger.Error("Signup persist error", "error", err)
		return nil, err
	}

	return &SignupResult{
		ID:        record.ID.String(),
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Message:   SignupSuccessMessage,
	}, nil
}

// GetUserByEmail is a pass-through lookup.
func (s *Auther) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.FindByEmail(ctx, email)
}
