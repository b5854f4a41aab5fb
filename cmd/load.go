package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/goldbook/loanbook-cli/internal/report"
	"github.com/goldbook/loanbook-cli/internal/snapshot"
	"github.com/goldbook/loanbook-cli/internal/source"
)

// loadSnapshot opens the configured source and pulls one normalized
// snapshot through the cache. The returned closer shuts the source down.
func loadSnapshot(ctx context.Context) (*snapshot.Snapshot, func(), error) {
	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	cache := snapshot.NewCache(src, time.Duration(cfg.Cache.TTLSecs)*time.Second)
	snap, err := cache.Get(ctx)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return snap, func() { _ = src.Close() }, nil
}

// outputTarget resolves the --output flag: a file when set, stdout otherwise.
func outputTarget(cmd *cobra.Command) (*os.File, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

// reportFormat resolves the --format flag.
func reportFormat(cmd *cobra.Command) (report.Format, error) {
	s, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(s)
}

// asOf resolves the --as-of flag, defaulting to now.
func asOf(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("as-of")
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse --as-of %q", s)
	}
	return t, nil
}

// addReportFlags registers the flags shared by every report command.
func addReportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "text", "output format: text or yaml")
	f.String("output", "", "output file path (default: stdout)")
	f.String("as-of", "", "evaluation date YYYY-MM-DD (default: today)")
}
