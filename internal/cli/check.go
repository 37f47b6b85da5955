package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mkarpov/skybook/internal/config"
	"github.com/mkarpov/skybook/internal/members"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Config string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate config and registry without syncing",
		Long: `Validate the config file against its schema, load the member registry,
and verify that every member's logbook document directory exists. No
database is read and nothing is written.

Example:
  skybook check --config skybook.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "config is invalid", err)
	}
	reg, err := members.Load(cfg.MembersFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "member registry is invalid", err)
	}

	var missing []string
	for _, m := range reg.Members {
		dir := filepath.Join(cfg.DocumentsDir, m.SpreadsheetKey)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			missing = append(missing, fmt.Sprintf("%s (#%d): %s", m.Name, m.ClubID, dir))
		}
	}
	if len(missing) > 0 {
		if err := f.Error("missing logbook documents", missing); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d members have no logbook document", len(missing)))
	}

	return f.Success(fmt.Sprintf("config ok: %d members, documents under %s", len(reg.Members), cfg.DocumentsDir))
}
