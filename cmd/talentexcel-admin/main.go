// Command talentexcel-admin bundles operational tasks: migrations,
// development seeding, and college domain allowlist management.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/talentexcel/talentexcel-api/config"
	"github.com/talentexcel/talentexcel-api/internal/bootstrap"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/devseed"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrationsCommand,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"college-domain-add": {
			name:        "college-domain-add",
			description: "Add a college email domain to the allowlist",
			run:         runCollegeDomainAdd,
		},
		"college-domain-list": {
			name:        "college-domain-list",
			description: "List the college email domain allowlist",
			run:         runCollegeDomainList,
		},
		"college-domain-remove": {
			name:        "college-domain-remove",
			description: "Remove a college email domain by id",
			run:         runCollegeDomainRemove,
		},
		"list-sessions": {
			name:        "list-sessions",
			description: "Inspect active sessions in Redis",
			run:         runListSessions,
		},
		"clear-sessions": {
			name:        "clear-sessions",
			description: "Delete active sessions from Redis (forces re-login)",
			run:         runClearSessions,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: talentexcel-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "  %-24s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, fmt.Errorf("parse migrate flags: %w", err)
	}
	return migrateOptions{Timeout: *timeout}, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for the reset")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	seed := fs.Bool("seed", false, "seed development data after the reset")
	allowRemote := fs.Bool("allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, fmt.Errorf("parse db-reset flags: %w", err)
	}
	return dbResetOptions{Timeout: *timeout, Yes: *yes, Seed: *seed, AllowRemote: *allowRemote}, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for seeding")
	allowRemote := fs.Bool("allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, fmt.Errorf("parse db-seed flags: %w", err)
	}
	return dbSeedOptions{Timeout: *timeout, AllowRemote: *allowRemote}, nil
}

func runMigrationsCommand(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	if guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema"); guardErr != nil {
		return guardErr
	}
	if confirmErr := confirmAction(opts.Yes, "reset database schema", target); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
				return fmt.Errorf("seed data: %w", seedErr)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

type collegeDomainAddOptions struct {
	Domain      string
	CollegeName string
	MatchKind   string
}

func parseCollegeDomainAddFlags(args []string) (collegeDomainAddOptions, error) {
	fs := flag.NewFlagSet("college-domain-add", flag.ContinueOnError)
	domain := fs.String("domain", "", "email domain to allow (required)")
	name := fs.String("name", "", "college name (required)")
	matchKind := fs.String("match", "exact", "match kind: exact or registrable")
	if err := fs.Parse(args); err != nil {
		return collegeDomainAddOptions{}, fmt.Errorf("parse college-domain-add flags: %w", err)
	}
	opts := collegeDomainAddOptions{Domain: *domain, CollegeName: *name, MatchKind: *matchKind}
	if opts.Domain == "" || opts.CollegeName == "" {
		return collegeDomainAddOptions{}, errors.New("-domain and -name are required")
	}
	return opts, nil
}

func runCollegeDomainAdd(cmdCtx *commandContext, args []string) error {
	opts, err := parseCollegeDomainAddFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		svc, svcErr := collegeDomainService(db)
		if svcErr != nil {
			return svcErr
		}
		entry, createErr := svc.Create(ctx, &model.CreateCollegeDomainRequest{
			Domain:      opts.Domain,
			CollegeName: opts.CollegeName,
			MatchKind:   model.DomainMatchKind(opts.MatchKind),
		})
		if createErr != nil {
			return createErr
		}
		cmdCtx.Logger.Info("college domain added",
			"id", entry.ID,
			"domain", entry.Domain,
			"match_kind", entry.MatchKind,
		)
		return nil
	})
}

func runCollegeDomainList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("college-domain-list", flag.ContinueOnError)
	limit := fs.Int("limit", 200, "maximum entries to show")
	offset := fs.Int("offset", 0, "entries to skip")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse college-domain-list flags: %w", err)
	}

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		svc, svcErr := collegeDomainService(db)
		if svcErr != nil {
			return svcErr
		}
		entries, listErr := svc.List(ctx, *limit, *offset)
		if listErr != nil {
			return listErr
		}
		return renderCollegeDomainTable(entries)
	})
}

func runCollegeDomainRemove(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("college-domain-remove", flag.ContinueOnError)
	id := fs.String("id", "", "college domain id to remove (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse college-domain-remove flags: %w", err)
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		svc, svcErr := collegeDomainService(db)
		if svcErr != nil {
			return svcErr
		}
		if delErr := svc.Delete(ctx, *id); delErr != nil {
			return delErr
		}
		cmdCtx.Logger.Info("college domain removed", "id", *id)
		return nil
	})
}

func collegeDomainService(db *sql.DB) (*service.CollegeDomainService, error) {
	svc, err := service.NewCollegeDomainService(service.CollegeDomainServiceOptions{
		Repo: data.NewCollegeDomainRepo(db),
	})
	if err != nil {
		return nil, fmt.Errorf("create college domain service: %w", err)
	}
	return svc, nil
}

func renderCollegeDomainTable(entries []*model.CollegeDomain) error {
	if len(entries) == 0 {
		return writef(os.Stdout, "No college domains configured.\n")
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tDOMAIN\tMATCH\tCOLLEGE\n"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Domain, e.MatchKind, e.CollegeName); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	fn func(ctx context.Context, db *sql.DB) error,
) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, timeout)
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

	return fn(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) error {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) || allow {
		return nil
	}
	return fmt.Errorf(
		"refusing to %s on remote host %q; pass -allow-remote to proceed",
		action, host,
	)
}

func isLikelyRemoteHost(host string) bool {
	switch strings.ToLower(host) {
	case "", "localhost", "127.0.0.1", "::1":
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		"DROP SCHEMA IF EXISTS public CASCADE",
		"CREATE SCHEMA public",
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", stmt, err)
		}
	}
	return nil
}

func confirmAction(yes bool, actionType, target string) error {
	if yes {
		return nil
	}
	if err := writef(os.Stdout, "About to %s for %s.\nType 'yes' to continue: ", actionType, target); err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(answer) != "yes" {
		return errors.New("aborted")
	}
	return nil
}
