package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/depcache/internal/app"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/ui/output"
	"go.trai.ch/depcache/internal/ui/style"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var outDir, metricsFile string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "build FILE...",
		Short: "Transform modules, compiling only what changed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opts := c.openOptions()
			opts.ReadOnly = readOnly

			session, err := c.app.Open(opts)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := session.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()

			results, buildErr := session.Build(cmd.Context(), args, app.BuildOptions{OutDir: outDir})

			p := output.NewPrinter(cmd.OutOrStdout())
			root := session.Config().Root
			for _, r := range results {
				icon, color := outcomeStatus(r.Outcome)
				p.Status(icon, color, "%-8s %s", r.Outcome, rel(root, r.FileID))
			}
			p.Muted("%s", app.Summary(results))
			if err := p.Err(); err != nil {
				return err
			}

			if metricsFile != "" {
				if err := c.app.Metrics().WriteTextfile(metricsFile); err != nil {
					return err
				}
			}
			return buildErr
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write artifacts to this directory")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Use the result cache without writing to it")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	return cmd
}

func outcomeStatus(outcome domain.Outcome) (string, lipgloss.Color) {
	switch outcome {
	case domain.OutcomeCached:
		return style.Cached, style.Muted
	case domain.OutcomeCompiled:
		return style.Compiled, style.Success
	default:
		return style.Failed, style.Failure
	}
}
