// Package cli implements the skybook command line interface.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds the persistent flags every subcommand sees.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// outputFormats lists the renderings Success and Error know how to produce.
var outputFormats = []string{"text", "json"}

// NewRootCommand builds the skybook command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "skybook",
		Short: "skybook - pilot logbook synchronizer",
		Long:  "Pushes flights from the club's flight database into each member's personal logbook document.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(outputFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, outputFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewMembersCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}
