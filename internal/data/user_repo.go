package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tradepro/ui-api/internal/data/database"
	"github.com/tradepro/ui-api/internal/data/pgxutil"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// Account status values stored in users.status.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// UserAccount is the full account row, including credential and lifecycle
// fields that never leave the data/service layers.
type UserAccount struct {
	ID            string   `db:"id"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password_hash"`
	FirstName     string   `db:"first_name"`
	LastName      string   `db:"last_name"`
	Role          string   `db:"role"`
	Roles         []string `db:"roles"`
	Status        string   `db:"status"`
	EmailVerified bool     `db:"email_verified"`
}

// User projects the account to the domain shape with canonical roles.
func (a UserAccount) User() domainauth.User {
	return domainauth.NormalizeUser(domainauth.User{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		Roles:     a.Roles,
	})
}

// CreateUserParams carries inputs for UserRepo.Create.
type CreateUserParams struct {
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          string
	Roles         []string
	EmailVerified bool
}

const userColumns = `id, email, password_hash, first_name, last_name, role, roles, status, email_verified`

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new account. Email uniqueness violations surface as
// ErrUserEmailExists.
func (r *UserRepo) Create(ctx context.Context, params CreateUserParams) (UserAccount, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return UserAccount{}, errors.New("email is required")
	}
	if params.PasswordHash == "" {
		return UserAccount{}, errors.New("password hash is required")
	}
	role := params.Role
	if role == "" {
		role = string(domainauth.DefaultRole)
	}
	roles := params.Roles
	if roles == nil {
		// The roles column is NOT NULL; a nil slice would insert SQL NULL.
		roles = []string{}
	}

	var out UserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				id, email, password_hash, first_name, last_name, role, roles, status, email_verified, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			) RETURNING `+userColumns,
			uuid.NewString(),
			email,
			params.PasswordHash,
			strings.TrimSpace(params.FirstName),
			strings.TrimSpace(params.LastName),
			strings.ToLower(role),
			roles,
			UserStatusActive,
			params.EmailVerified,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[UserAccount])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return UserAccount{}, ErrUserEmailExists
		}
		return UserAccount{}, err
	}
	return out, nil
}

// AccountByEmail retrieves the full account row for credential checks.
func (r *UserRepo) AccountByEmail(ctx context.Context, email string) (UserAccount, error) {
	return r.getAccount(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

// AccountByID retrieves the full account row by ID.
func (r *UserRepo) AccountByID(ctx context.Context, id string) (UserAccount, error) {
	return r.getAccount(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByID retrieves a user in domain shape.
func (r *UserRepo) GetByID(ctx context.Context, id string) (domainauth.User, error) {
	acct, err := r.AccountByID(ctx, id)
	if err != nil {
		return domainauth.User{}, err
	}
	return acct.User(), nil
}

// GetByEmail retrieves a user in domain shape.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domainauth.User, error) {
	acct, err := r.AccountByEmail(ctx, email)
	if err != nil {
		return domainauth.User{}, err
	}
	return acct.User(), nil
}

// List retrieves all users ordered by email. Used by the admin console.
func (r *UserRepo) List(ctx context.Context) ([]domainauth.User, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns("id", "email", "password_hash", "first_name", "last_name",
			"role", "roles", "status", "email_verified"),
		database.WithOrderBy("email", "ASC"),
	))

	var accounts []UserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		accounts, err = pgx.CollectRows(rows, pgx.RowToStructByName[UserAccount])
		return err
	})
	if err != nil {
		return nil, err
	}

	users := make([]domainauth.User, len(accounts))
	for i, acct := range accounts {
		users[i] = acct.User()
	}
	return users, nil
}

// SetRole updates the primary role of a user. The legacy roles list is
// rewritten to contain exactly the new role so the two representations
// cannot drift apart on our side.
func (r *UserRepo) SetRole(ctx context.Context, id string, role domainauth.Role) error {
	canonical, _ := domainauth.Normalize(string(role), nil)
	return r.exec(ctx,
		`UPDATE users SET role = $2, roles = $3, updated_at = $4 WHERE id = $1`,
		id, string(canonical), []string{string(canonical)}, r.timeProvider.Now().UTC())
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if passwordHash == "" {
		return errors.New("password hash is required")
	}
	return r.exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, r.timeProvider.Now().UTC())
}

// SetStatus updates the account lifecycle status.
func (r *UserRepo) SetStatus(ctx context.Context, id, status string) error {
	if status != UserStatusActive && status != UserStatusSuspended {
		return errors.New("invalid user status: " + status)
	}
	return r.exec(ctx,
		`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, r.timeProvider.Now().UTC())
}

// MarkEmailVerified records that the verification step completed.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = $2 WHERE id = $1`,
		id, r.timeProvider.Now().UTC())
}

func (r *UserRepo) getAccount(ctx context.Context, query string, arg any) (UserAccount, error) {
	var out UserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[UserAccount])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return UserAccount{}, ErrUserNotFound
	}
	if err != nil {
		return UserAccount{}, err
	}
	return out, nil
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
