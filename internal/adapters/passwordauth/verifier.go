// Package passwordauth implements email/password authentication against the
// users table. It is the dashboard's default login mode; OIDC SSO is the
// alternative.
package passwordauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradepro/ui-api/internal/data"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	apperrors "github.com/tradepro/ui-api/internal/errors"
	"github.com/tradepro/ui-api/internal/ports"
)

// DefaultSessionTTL is how long a password-mode session lives.
const DefaultSessionTTL = 8 * time.Hour

// BcryptCost is the work factor for new password hashes.
const BcryptCost = 12

// AccountStore is the slice of the user repository the verifier needs.
type AccountStore interface {
	AccountByEmail(ctx context.Context, email string) (data.UserAccount, error)
	Create(ctx context.Context, params data.CreateUserParams) (data.UserAccount, error)
}

// Verifier checks credentials against the users table.
type Verifier struct {
	Users      AccountStore
	SessionTTL time.Duration
}

var (
	_ ports.CredentialVerifier = (*Verifier)(nil)
	_ ports.UserRegistrar      = (*Verifier)(nil)
)

// NewVerifier creates a Verifier with the default session TTL.
func NewVerifier(users AccountStore) *Verifier {
	return &Verifier{Users: users, SessionTTL: DefaultSessionTTL}
}

// Verify checks an email/password pair. Unknown accounts and wrong passwords
// return the same invalid-credentials error so responses cannot be used to
// enumerate accounts. Suspended and unverified accounts are only reported as
// such after the password matched.
func (v *Verifier) Verify(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return domainauth.Identity{}, apperrors.InvalidCredentials()
	}

	acct, err := v.Users.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return domainauth.Identity{}, apperrors.InvalidCredentials()
		}
		return domainauth.Identity{}, fmt.Errorf("load account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(creds.Password)) != nil {
		return domainauth.Identity{}, apperrors.InvalidCredentials()
	}

	if acct.Status == data.UserStatusSuspended {
		return domainauth.Identity{}, apperrors.AccountSuspended()
	}
	if !acct.EmailVerified {
		return domainauth.Identity{}, apperrors.EmailNotVerified()
	}

	return v.identity(acct), nil
}

// Register creates a new account with a freshly hashed password. The account
// starts unverified; dev seeding marks demo accounts verified directly.
func (v *Verifier) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error) {
	if err := validateRegisterInput(in); err != nil {
		return domainauth.Identity{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	acct, err := v.Users.Create(ctx, data.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserEmailExists) {
			return domainauth.Identity{}, apperrors.Conflict("An account with this email already exists")
		}
		return domainauth.Identity{}, fmt.Errorf("create account: %w", err)
	}
	return v.identity(acct), nil
}

// HashPassword hashes a plaintext password at the standard cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v *Verifier) identity(acct data.UserAccount) domainauth.Identity {
	ttl := v.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	u := acct.User()
	return domainauth.Identity{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Roles:     u.Roles,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func validateRegisterInput(in ports.RegisterInput) error {
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		return apperrors.ValidationField("email", "Email is required")
	case !strings.Contains(email, "@"):
		return apperrors.ValidationField("email", "Email is not valid")
	case len(in.Password) < 8:
		return apperrors.ValidationField("password", "Password must be at least 8 characters")
	default:
		return nil
	}
}
