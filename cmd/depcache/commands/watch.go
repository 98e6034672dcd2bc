package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/depcache/internal/app"
)

// timestamper is implemented by loggers that can prefix records with the time.
type timestamper interface {
	SetTimestamps(enable bool)
}

func (c *CLI) newWatchCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Rebuild modules whenever a file below the project root changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s, ok := c.logger.(timestamper); ok {
				s.SetTimestamps(true)
			}
			return c.app.Watch(cmd.Context(), c.openOptions(), args, app.BuildOptions{OutDir: outDir})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write artifacts to this directory")
	return cmd
}
