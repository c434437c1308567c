package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradepro/ui-api/internal/adapters/passwordauth"
	"github.com/tradepro/ui-api/internal/data"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

type createUserOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createUserOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (generated when empty)")
	fs.StringVar(&opts.FirstName, "first-name", "", "First name")
	fs.StringVar(&opts.LastName, "last-name", "", "Last name")
	fs.StringVar(&opts.Role, "role", string(domainauth.RoleUser), "Account role (user or admin)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if opts.Email == "" {
		return errors.New("--email is required")
	}

	role, _ := domainauth.Normalize(opts.Role, nil)
	if role != domainauth.RoleUser && !domainauth.IsAdminRole(role) {
		return fmt.Errorf("unsupported role %q", opts.Role)
	}

	password := opts.Password
	generated := false
	if password == "" {
		var err error
		password, err = generatePassword()
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordauth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		acct, createErr := data.NewUserRepo(db).Create(ctx, data.CreateUserParams{
			Email:         opts.Email,
			PasswordHash:  string(hash),
			FirstName:     opts.FirstName,
			LastName:      opts.LastName,
			Role:          string(role),
			EmailVerified: true,
		})
		if createErr != nil {
			if errors.Is(createErr, data.ErrUserEmailExists) {
				return fmt.Errorf("account %s already exists", opts.Email)
			}
			return fmt.Errorf("create user: %w", createErr)
		}

		cmdCtx.Logger.Info("user created", "id", acct.ID, "email", acct.Email, "role", acct.Role)
		if generated {
			// Print to stdout rather than the log so the credential is not
			// captured by log shippers.
			return writef(os.Stdout, "Generated password for %s: %s\n", acct.Email, password)
		}
		return nil
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var email, roleArg string
	fs.StringVar(&email, "email", "", "Account email (required)")
	fs.StringVar(&roleArg, "role", "", "New role (required; user or admin)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("--email is required")
	}
	role, _ := domainauth.Normalize(roleArg, nil)
	if strings.TrimSpace(roleArg) == "" || (role != domainauth.RoleUser && !domainauth.IsAdminRole(role)) {
		return fmt.Errorf("unsupported role %q", roleArg)
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, data.ErrUserNotFound) {
				return fmt.Errorf("no account with email %s", email)
			}
			return fmt.Errorf("look up user: %w", err)
		}
		if err := repo.SetRole(ctx, user.ID, role); err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		cmdCtx.Logger.Info("role updated", "email", email, "role", role)
		return nil
	})
}

func runResetPassword(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var email, password string
	fs.StringVar(&email, "email", "", "Account email (required)")
	fs.StringVar(&password, "password", "", "New password (generated when empty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("--email is required")
	}

	generated := false
	if password == "" {
		var err error
		password, err = generatePassword()
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordauth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, lookupErr := repo.GetByEmail(ctx, email)
		if lookupErr != nil {
			if errors.Is(lookupErr, data.ErrUserNotFound) {
				return fmt.Errorf("no account with email %s", email)
			}
			return fmt.Errorf("look up user: %w", lookupErr)
		}
		if updateErr := repo.UpdatePassword(ctx, user.ID, string(hash)); updateErr != nil {
			return fmt.Errorf("update password: %w", updateErr)
		}

		cmdCtx.Logger.Info("password updated", "email", email)
		if generated {
			return writef(os.Stdout, "Generated password for %s: %s\n", email, password)
		}
		return nil
	})
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users, err := data.NewUserRepo(db).List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if err := writeln(tw, "ID\tEMAIL\tNAME\tROLE"); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
		for _, u := range users {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if name == "" {
				name = "-"
			}
			if err := writef(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, name, u.Role); err != nil {
				return fmt.Errorf("write user row: %w", err)
			}
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush user table: %w", err)
		}
		return writef(os.Stdout, "Total accounts: %d\n", len(users))
	})
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
