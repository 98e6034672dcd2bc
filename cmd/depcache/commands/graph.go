package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/depcache/internal/ui/output"
	"go.trai.ch/depcache/internal/ui/style"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph FILE...",
		Short: "Print the import graph reachable from modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.openOptions()
			opts.ReadOnly = true

			session, err := c.app.Open(opts)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			g, err := session.Graph(args)
			if err != nil {
				return err
			}

			p := output.NewPrinter(cmd.OutOrStdout())
			root := session.Config().Root
			for id := range g.Modules() {
				p.Line("%s", rel(root, id))
				for _, edge := range g.Imports(id) {
					p.Line("  -> %s (%s)", rel(root, edge.FileID), edge.Specifier)
				}
			}

			for _, cycle := range g.Cycles() {
				members := make([]string, len(cycle))
				for i, id := range cycle {
					members[i] = rel(root, id)
				}
				p.Status(style.Warning, style.Caution, "import cycle: %s", strings.Join(members, " -> "))
			}
			return p.Err()
		},
	}
}
