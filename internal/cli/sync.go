package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkarpov/skybook/internal/config"
	"github.com/mkarpov/skybook/internal/members"
	"github.com/mkarpov/skybook/internal/sheet"
	"github.com/mkarpov/skybook/internal/source"
	"github.com/mkarpov/skybook/internal/syncer"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Config string
	DryRun bool
	Member int64

	// Tokens allows overriding the run token generator (for testing).
	Tokens syncer.TokenGenerator
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push new flights into member logbooks",
		Long: `Read the flight database and push each member's new flights into
their personal logbook document, advancing the per-member watermark.

Example:
  skybook sync --config skybook.yaml
  skybook sync --config skybook.yaml --member 4711 --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "sync against in-memory copies, write nothing")
	cmd.Flags().Int64Var(&opts.Member, "member", 0, "sync only this club member id")

	return cmd
}

func runSync(cmd *cobra.Command, opts *SyncOptions) error {
	configureLogging(opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	reg, err := members.Load(cfg.MembersFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load member registry", err)
	}
	if opts.Member != 0 {
		if err := filterRegistry(reg, opts.Member); err != nil {
			return WrapExitError(ExitCommandError, "unknown member", err)
		}
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping after current member", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	snap, err := readSnapshot(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read flight database", err)
	}

	var opener sheet.Opener = sheet.DirOpener{Root: cfg.DocumentsDir}
	if opts.DryRun {
		opener = detachedOpener{root: cfg.DocumentsDir}
		scratch, err := os.CreateTemp("", "skybook-registry-*.yaml")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create dry-run registry", err)
		}
		scratch.Close()
		defer os.Remove(scratch.Name())
		reg.Rebind(scratch.Name())
		slog.Info("dry run: no document or registry writes will persist")
	}

	var sOpts []syncer.Option
	if opts.Tokens != nil {
		sOpts = append(sOpts, syncer.WithTokenGenerator(opts.Tokens))
	}
	report, runErr := syncer.New(snap, reg, opener, cfg.SyncerConfig(), sOpts...).Run(ctx)

	if err := writeReport(cmd, opts, report); err != nil {
		return err
	}
	if runErr != nil {
		return WrapExitError(ExitFailure, "run interrupted", runErr)
	}
	if len(report.Failed()) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d members failed", len(report.Failed()), len(report.Results)))
	}
	return nil
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func filterRegistry(reg *members.Registry, clubID int64) error {
	for _, m := range reg.Members {
		if m.ClubID == clubID {
			reg.Members = []*members.Member{m}
			return nil
		}
	}
	return fmt.Errorf("club member %d is not in the registry", clubID)
}

func readSnapshot(ctx context.Context, cfg *config.Config) (*source.Snapshot, error) {
	if cfg.Source.SQLitePath != "" {
		return source.ReadSQLite(ctx, cfg.Source.SQLitePath)
	}
	return source.ReadPostgres(ctx, cfg.Source.PostgresDSN)
}

// detachedOpener opens the on-disk documents but hands out in-memory
// copies, so a dry run exercises the full pipeline without writing.
type detachedOpener struct {
	root string
}

func (o detachedOpener) Open(key string) (sheet.Document, error) {
	doc, err := sheet.OpenDir(filepath.Join(o.root, key))
	if err != nil {
		return nil, err
	}
	return doc.Detach(), nil
}

func writeReport(cmd *cobra.Command, opts *SyncOptions, report *syncer.Report) error {
	out := cmd.OutOrStdout()
	f := &OutputFormatter{Format: opts.Format, Writer: out}
	if opts.Format == "json" {
		return f.Success(report)
	}

	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "  FAIL %s (#%d): %v\n", res.Name, res.ClubID, res.Err)
			continue
		}
		fmt.Fprintf(out, "  ok   %s (#%d): examined %d, added %d flights, %d aircraft, watermark %s\n",
			res.Name, res.ClubID, res.Examined, res.Added, res.AircraftAdded, res.Watermark)
	}
	return f.Success(fmt.Sprintf("run %s: %d members, %d failed", report.RunToken, len(report.Results), len(report.Failed())))
}
