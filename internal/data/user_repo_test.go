package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
	"github.com/tradepro/ui-api/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB, email string) UserAccount {
	t.Helper()
	acct, err := NewUserRepo(db).Create(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		FirstName:    "Test",
		LastName:     "Trader",
	})
	require.NoError(t, err)
	return acct
}

func TestUserRepo_Create_Get_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		email := fmt.Sprintf("trader-%d@example.com", time.Now().UnixNano())
		acct, err := repo.Create(ctx, CreateUserParams{
			Email:        "  " + email + "  ",
			PasswordHash: "hash",
			FirstName:    "Ada",
			LastName:     "Trader",
			Role:         "Admin",
		})
		require.NoError(t, err)
		require.NotEmpty(t, acct.ID)
		assert.Equal(t, email, acct.Email, "email should be trimmed and lowercased")
		assert.Equal(t, "admin", acct.Role)
		assert.Equal(t, UserStatusActive, acct.Status)

		// duplicate email
		_, err = repo.Create(ctx, CreateUserParams{Email: email, PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrUserEmailExists)

		// lookups
		got, err := repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
		assert.Equal(t, string(domainauth.RoleAdmin), got.Role)

		byID, err := repo.GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, email, byID.Email)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}

func TestUserRepo_SetRole_UpdatePassword(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		acct := createTestUser(t, db, fmt.Sprintf("role-%d@example.com", time.Now().UnixNano()))

		require.NoError(t, repo.SetRole(ctx, acct.ID, domainauth.RoleAdmin))
		got, err := repo.GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, string(domainauth.RoleAdmin), got.Role)
		role, roles := domainauth.Normalize(got.Role, got.Roles)
		assert.True(t, domainauth.HasAdminAccess(role, roles))

		require.NoError(t, repo.UpdatePassword(ctx, acct.ID, "new-hash"))
		full, err := repo.AccountByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", full.PasswordHash)

		require.NoError(t, repo.MarkEmailVerified(ctx, acct.ID))
		full, err = repo.AccountByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.True(t, full.EmailVerified)
	})
}

func TestUserRepo_SetStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		acct := createTestUser(t, db, fmt.Sprintf("status-%d@example.com", time.Now().UnixNano()))

		require.NoError(t, repo.SetStatus(ctx, acct.ID, UserStatusSuspended))
		full, err := repo.AccountByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, UserStatusSuspended, full.Status)
	})
}
