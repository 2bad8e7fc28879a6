package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

const sessionKeyPrefix = "session:"

type sessionListOptions struct {
	UserID string
	Email  string
	Role   string
	Limit  int
}

type sessionClearOptions struct {
	All    bool
	UserID string
	Email  string
	DryRun bool
	Yes    bool
}

func parseSessionListFlags(args []string) (sessionListOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	userID := fs.String("user", "", "filter by user id")
	email := fs.String("email", "", "filter by email substring")
	role := fs.String("role", "", "filter by role (student, employer, tpo, admin)")
	limit := fs.Int("limit", 100, "maximum sessions to show")
	if err := fs.Parse(args); err != nil {
		return sessionListOptions{}, fmt.Errorf("parse list-sessions flags: %w", err)
	}
	return sessionListOptions{UserID: *userID, Email: *email, Role: *role, Limit: *limit}, nil
}

func parseSessionClearFlags(args []string) (sessionClearOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	all := fs.Bool("all", false, "clear every active session")
	userID := fs.String("user", "", "clear sessions belonging to a user id")
	email := fs.String("email", "", "clear sessions matching an email substring")
	dryRun := fs.Bool("dry-run", false, "report matches without deleting")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return sessionClearOptions{}, fmt.Errorf("parse clear-sessions flags: %w", err)
	}
	opts := sessionClearOptions{All: *all, UserID: *userID, Email: *email, DryRun: *dryRun, Yes: *yes}
	if !opts.All && opts.UserID == "" && opts.Email == "" {
		return sessionClearOptions{}, errors.New("pass -all, -user, or -email to select sessions")
	}
	return opts, nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionListFlags(args)
	if err != nil {
		return err
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		resp, inspectErr := inspectSessions(&inspectSessionsRequest{
			Ctx:     ctx,
			Client:  client,
			Logger:  cmdCtx.Logger,
			Options: &opts,
		})
		if inspectErr != nil {
			return inspectErr
		}
		return printSessionEntries(resp, &opts)
	})
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionClearFlags(args)
	if err != nil {
		return err
	}

	target := "matching sessions"
	if opts.All {
		target = "ALL active sessions"
	}
	if !opts.DryRun {
		if confirmErr := confirmAction(opts.Yes, "delete "+target, "the configured Redis instance"); confirmErr != nil {
			return confirmErr
		}
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		deleted, purgeErr := purgeSessions(&purgeSessionsRequest{
			Ctx:     ctx,
			Client:  client,
			Logger:  cmdCtx.Logger,
			Options: opts,
		})
		if purgeErr != nil {
			return purgeErr
		}
		if opts.DryRun {
			cmdCtx.Logger.Info("dry run completed", "sessions_matched", deleted)
			return nil
		}
		cmdCtx.Logger.Info("sessions cleared", "sessions_deleted", deleted)
		return nil
	})
}

// withRedis opens the configured Redis client for the duration of fn.
func withRedis(cmdCtx *commandContext, fn func(ctx context.Context, client redis.UniversalClient) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	_, client, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    false,
		WantRedis: true,
	})
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("redis is not configured; session commands require REDIS_URI")
	}
	defer func() {
		if closeErr := closeInfra(nil, client); closeErr != nil {
			cmdCtx.Logger.Warn("close redis failed", "error", closeErr)
		}
	}()

	return fn(ctx, client)
}

type sessionEntry struct {
	Key     string
	Session domainauth.Session
	TTL     time.Duration
}

type inspectSessionsRequest struct {
	Ctx     context.Context
	Client  redis.UniversalClient
	Logger  *slog.Logger
	Options *sessionListOptions
}

type inspectSessionsResponse struct {
	Entries []sessionEntry
	Total   int
}

func inspectSessions(req *inspectSessionsRequest) (inspectSessionsResponse, error) {
	if req == nil || req.Options == nil {
		return inspectSessionsResponse{}, nil
	}

	collector := sessionCollector{limit: req.Options.Limit, filter: req.Options}
	iter := req.Client.Scan(req.Ctx, 0, sessionKeyPrefix+"*", 1000).Iterator()
	for iter.Next(req.Ctx) {
		if err := collector.addKey(req, iter.Val()); err != nil {
			return inspectSessionsResponse{}, err
		}
	}
	if err := iter.Err(); err != nil {
		return inspectSessionsResponse{}, fmt.Errorf("scan redis: %w", err)
	}
	return collector.result(), nil
}

type sessionCollector struct {
	entries []sessionEntry
	total   int
	limit   int
	filter  *sessionListOptions
}

func (c *sessionCollector) addKey(req *inspectSessionsRequest, key string) error {
	sess, ttl, err := loadSession(req.Ctx, req.Client, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		req.Logger.Warn("skipping redis key", "key", key, "error", err)
		return nil
	}
	if !sessionMatches(sess, c.filter) {
		return nil
	}

	c.total++
	if c.limit > 0 && len(c.entries) >= c.limit {
		return nil
	}
	c.entries = append(c.entries, sessionEntry{Key: key, Session: sess, TTL: ttl})
	return nil
}

func (c *sessionCollector) result() inspectSessionsResponse {
	sort.Slice(c.entries, func(i, j int) bool {
		if c.entries[i].Session.Email == c.entries[j].Session.Email {
			return c.entries[i].Session.ID < c.entries[j].Session.ID
		}
		return c.entries[i].Session.Email < c.entries[j].Session.Email
	})
	return inspectSessionsResponse{Entries: c.entries, Total: c.total}
}

func loadSession(ctx context.Context, client redis.UniversalClient, key string) (domainauth.Session, time.Duration, error) {
	data, err := client.Get(ctx, key).Result()
	if err != nil {
		return domainauth.Session{}, 0, err
	}
	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, 0, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return domainauth.Session{}, 0, fmt.Errorf("query redis ttl for key %q: %w", key, err)
	}
	return sess, ttl, nil
}

func sessionMatches(sess domainauth.Session, opts *sessionListOptions) bool {
	if opts == nil {
		return true
	}
	if opts.UserID != "" && sess.UserID != opts.UserID {
		return false
	}
	if opts.Email != "" && !strings.Contains(strings.ToLower(sess.Email), strings.ToLower(opts.Email)) {
		return false
	}
	if opts.Role != "" && string(sess.Role) != strings.ToLower(strings.TrimSpace(opts.Role)) {
		return false
	}
	return true
}

type purgeSessionsRequest struct {
	Ctx     context.Context
	Client  redis.UniversalClient
	Logger  *slog.Logger
	Options sessionClearOptions
}

func purgeSessions(req *purgeSessionsRequest) (int, error) {
	if req == nil {
		return 0, errors.New("purge request is required")
	}

	keys := make([]string, 0)
	iter := req.Client.Scan(req.Ctx, 0, sessionKeyPrefix+"*", 1000).Iterator()
	for iter.Next(req.Ctx) {
		key := iter.Val()
		if !req.Options.All {
			sess, _, err := loadSession(req.Ctx, req.Client, key)
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				req.Logger.Warn("skipping redis key", "key", key, "error", err)
				continue
			}
			if !clearMatches(sess, req.Options) {
				continue
			}
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan redis: %w", err)
	}

	if req.Options.DryRun || len(keys) == 0 {
		return len(keys), nil
	}

	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		if err := req.Client.Del(req.Ctx, keys[start:end]...).Err(); err != nil {
			return 0, fmt.Errorf("delete redis keys: %w", err)
		}
	}
	return len(keys), nil
}

func clearMatches(sess domainauth.Session, opts sessionClearOptions) bool {
	if opts.UserID != "" && sess.UserID != opts.UserID {
		return false
	}
	if opts.Email != "" && !strings.Contains(strings.ToLower(sess.Email), strings.ToLower(opts.Email)) {
		return false
	}
	return true
}

func printSessionEntries(resp inspectSessionsResponse, opts *sessionListOptions) error {
	if opts == nil {
		return errors.New("list options are required")
	}
	if err := writef(os.Stdout, "\nActive sessions"); err != nil {
		return err
	}
	if opts.Limit > 0 {
		if err := writef(os.Stdout, " (showing up to %d)", opts.Limit); err != nil {
			return err
		}
	}
	if err := writeln(os.Stdout); err != nil {
		return err
	}

	if len(resp.Entries) == 0 {
		return writeln(os.Stdout, "  (no sessions matched)")
	}

	if err := renderSessionTable(resp.Entries); err != nil {
		return err
	}

	if err := writef(os.Stdout, "Total sessions matched: %d\n", resp.Total); err != nil {
		return err
	}
	if opts.Limit > 0 && resp.Total > len(resp.Entries) {
		return writeln(os.Stdout, "More sessions available; increase --limit to view additional entries.")
	}
	return nil
}

func renderSessionTable(entries []sessionEntry) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SESSION ID\tUSER ID\tEMAIL\tROLE\tEXPIRES (UTC)\tTTL"); err != nil {
		return err
	}

	for _, entry := range entries {
		role := string(entry.Session.Role)
		if role == "" {
			role = "-"
		}
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Session.ID,
			entry.Session.UserID,
			entry.Session.Email,
			role,
			formatTimestamp(entry.Session.ExpiresAt),
			formatSessionTTL(entry.TTL),
		); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush sessions table: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func formatSessionTTL(ttl time.Duration) string {
	if ttl == -1 {
		return "no expiry"
	}
	if ttl == -2 {
		return "missing"
	}
	if ttl < 0 {
		return ttl.String()
	}
	return ttl.Round(time.Second).String()
}
