package commands

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/ui/output"
)

func (c *CLI) newHashCmd() *cobra.Command {
	var verbose, asJSON bool

	cmd := &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the dependency fingerprint of modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			session, err := c.app.Open(c.openOptions())
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := session.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()

			fingerprints := make([]domain.Fingerprint, 0, len(args))
			for _, path := range args {
				fp, err := session.Fingerprint(cmd.Context(), path)
				if err != nil {
					return err
				}
				fingerprints = append(fingerprints, fp)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fingerprints)
			}

			p := output.NewPrinter(cmd.OutOrStdout())
			root := session.Config().Root
			for _, fp := range fingerprints {
				p.Line("%s  %s", fp.Hash, rel(root, fp.FileID))
				if !verbose {
					continue
				}
				for _, dep := range fp.Dependencies {
					p.Line("  %s", rel(root, dep.FileID))
				}
				p.Muted("  %d modules, %d cached, %d inserted in %s",
					fp.Stats.Calls, fp.Stats.CacheHits, fp.Stats.CacheInserts, fp.Stats.Duration)
			}
			return p.Err()
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List dependencies and walk statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print fingerprints as JSON")
	return cmd
}

// rel renders a module id relative to the project root.
func rel(root, fileID string) string {
	r, err := filepath.Rel(root, fileID)
	if err != nil {
		return fileID
	}
	return filepath.ToSlash(r)
}
