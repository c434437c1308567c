package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradepro/ui-api/internal/bootstrap"
	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

const sessionKeyPrefix = "session:"

type sessionListOptions struct {
	Email string
	Limit int
}

type clearSessionsOptions struct {
	Email  string
	All    bool
	DryRun bool
	Yes    bool
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts sessionListOptions
	fs.StringVar(&opts.Email, "email", "", "Filter by account email (case-insensitive)")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum sessions to display (0 for unlimited)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if err := writeln(tw, "SESSION\tUSER\tEMAIL\tROLE\tTTL"); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}

		total := 0
		shown := 0
		iter := client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			sess, ok := fetchSession(ctx, client, key)
			if !ok {
				continue
			}
			if opts.Email != "" && strings.ToLower(sess.Email) != opts.Email {
				continue
			}
			total++
			if opts.Limit > 0 && shown >= opts.Limit {
				continue
			}
			shown++
			ttl, _ := client.TTL(ctx, key).Result()
			if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
				strings.TrimPrefix(key, sessionKeyPrefix), sess.UserID, sess.Email, sess.Role, formatTTL(ttl)); err != nil {
				return fmt.Errorf("write session row: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}

		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush session table: %w", err)
		}
		if err := writef(os.Stdout, "Total sessions matched: %d\n", total); err != nil {
			return fmt.Errorf("write session total: %w", err)
		}
		if opts.Limit > 0 && total > shown {
			return writeln(os.Stdout, "More sessions available; increase --limit to view additional entries.")
		}
		return nil
	})
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.StringVar(&opts.Email, "email", "", "Revoke sessions for this account only (required unless --all)")
	fs.BoolVar(&opts.All, "all", false, "Revoke every session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print actions without executing")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if opts.Email == "" && !opts.All {
		return errors.New("either --email or --all is required")
	}

	target := "all sessions"
	if opts.Email != "" {
		target = "sessions for " + opts.Email
	}
	if !opts.DryRun && !opts.Yes {
		if err := confirmAction(target, "", "revoke sessions"); err != nil {
			return err
		}
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		matched := 0
		deleted := 0
		iter := client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			if opts.Email != "" {
				sess, ok := fetchSession(ctx, client, key)
				if !ok || strings.ToLower(sess.Email) != opts.Email {
					continue
				}
			}
			matched++
			if opts.DryRun {
				continue
			}
			if err := client.Del(ctx, key).Err(); err != nil {
				cmdCtx.Logger.Warn("delete session failed", "key", key, "error", err)
				continue
			}
			deleted++
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}

		if opts.DryRun {
			return writef(os.Stdout, "Dry run: %d sessions would be revoked (%s)\n", matched, target)
		}
		return writef(os.Stdout, "Revoked %d of %d matched sessions (%s)\n", deleted, matched, target)
	})
}

func runWarmQuotes(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("warm-quotes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", time.Minute, "Maximum duration to wait for quote warming")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cmdCtx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
	})

	warmed, err := services.Market.WarmQuotes(ctx)
	if err != nil {
		return fmt.Errorf("warm quotes: %w", err)
	}
	return writef(os.Stdout, "Warmed quotes for %d symbols\n", warmed)
}

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}

// fetchSession loads and decodes one session key; false when the key vanished
// mid-scan or holds something that is not a session.
func fetchSession(ctx context.Context, client redis.UniversalClient, key string) (domainauth.Session, bool) {
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		return domainauth.Session{}, false
	}
	var sess domainauth.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return domainauth.Session{}, false
	}
	return sess, true
}

func formatTTL(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
