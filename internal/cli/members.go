package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarpov/skybook/internal/config"
	"github.com/mkarpov/skybook/internal/members"
)

// MembersOptions holds flags for the members command.
type MembersOptions struct {
	*RootOptions
	Config string
}

// NewMembersCommand creates the members command.
func NewMembersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MembersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List registry members and their watermarks",
		Long: `List every member in the registry with their logbook key and how far
their logbook has been synchronized.

Example:
  skybook members --config skybook.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMembers(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func listMembers(cmd *cobra.Command, opts *MembersOptions) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	reg, err := members.Load(cfg.MembersFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load member registry", err)
	}

	out := cmd.OutOrStdout()
	f := &OutputFormatter{Format: opts.Format, Writer: out}
	if opts.Format == "json" {
		return f.Success(reg.Members)
	}

	for _, m := range reg.Members {
		watermark := m.SyncDate
		if watermark == "" {
			watermark = "never"
		}
		fmt.Fprintf(out, "  #%-6d %-24s key=%s synced=%s\n", m.ClubID, m.Name, m.SpreadsheetKey, watermark)
	}
	return f.Success(fmt.Sprintf("%d members", len(reg.Members)))
}
