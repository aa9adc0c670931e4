package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/eczema-insights/internal/domain/auth"
	"github.com/yanqian/eczema-insights/internal/domain/dashboard"
	"github.com/yanqian/eczema-insights/internal/domain/progress"
	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/logger"
	"github.com/yanqian/eczema-insights/pkg/util"
)

type snapshotFlags struct {
	file     string
	user     string
	timezone string
	now      string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "snapshot JSON file (object or array of objects)")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id to select when the file holds several snapshots")
	cmd.Flags().StringVar(&f.timezone, "tz", "UTC", "IANA timezone used for calendar days")
	cmd.Flags().StringVar(&f.now, "now", "", "evaluation time in RFC3339 (defaults to the current time)")
	_ = cmd.MarkFlagRequired("file")
}

func (f *snapshotFlags) resolve() (records.Snapshot, time.Time, error) {
	loc, err := util.LoadLocation(strings.TrimSpace(f.timezone), time.UTC)
	if err != nil {
		return records.Snapshot{}, time.Time{}, fmt.Errorf("invalid timezone %q: %w", f.timezone, err)
	}
	now := time.Now()
	if f.now != "" {
		now, err = time.Parse(time.RFC3339, f.now)
		if err != nil {
			return records.Snapshot{}, time.Time{}, fmt.Errorf("invalid --now: %w", err)
		}
	}
	snap, err := readSnapshot(f.file, f.user)
	if err != nil {
		return records.Snapshot{}, time.Time{}, err
	}
	return snap, now.In(loc), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "progressctl",
		Short:        "Compute eczema progress metrics from exported records",
		SilenceUsage: true,
	}
	root.AddCommand(newComputeCmd(), newDashboardCmd(), newTokenCmd())
	return root
}

func newComputeCmd() *cobra.Command {
	var (
		flags     snapshotFlags
		period    string
		threshold int
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Print the derived progress metrics for one snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := progress.ParsePeriod(period)
			if err != nil {
				return err
			}
			snap, now, err := flags.resolve()
			if err != nil {
				return err
			}
			metrics := progress.Compute(snap.Logs, snap.Reminders, progress.Options{
				Period:           p,
				FlareUpThreshold: threshold,
			}, now)
			return writeJSON(cmd.OutOrStdout(), metrics)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&period, "period", "p", "30", "look-back window: 7, 30 or 90 days")
	cmd.Flags().IntVar(&threshold, "flare-threshold", progress.DefaultFlareUpThreshold, "itchiness level counted as a flare-up")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var (
		flags snapshotFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print dashboard stats and the recent activity feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, now, err := flags.resolve()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"stats":      dashboard.Summarize(snap, now),
				"activities": dashboard.BuildActivity(snap.Scans, snap.Logs, limit, now),
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", dashboard.MaxActivityItems, "maximum activity items")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		user   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			svc := auth.NewService(auth.Config{Secret: secret, TokenTTL: ttl}, logger.NewWithWriter(cmd.ErrOrStderr(), "warn", "text"))
			token, err := svc.IssueToken(user, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id placed in the userId claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// readSnapshot accepts either a single snapshot object or an array of them.
func readSnapshot(path, userID string) (records.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return records.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var snap records.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return records.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
		}
		return snap, nil
	}

	var snaps []records.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return records.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(snaps) == 0 {
		return records.Snapshot{}, fmt.Errorf("snapshot file %s is empty", path)
	}
	if userID == "" {
		if len(snaps) > 1 {
			return records.Snapshot{}, fmt.Errorf("snapshot file holds %d users, pass --user", len(snaps))
		}
		return snaps[0], nil
	}
	for _, snap := range snaps {
		if snap.UserID == userID {
			return snap, nil
		}
	}
	return records.Snapshot{}, fmt.Errorf("user %q not found in %s", userID, path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
