package commands

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/depcache/internal/ui/output"
	"go.trai.ch/depcache/internal/ui/style"
)

// fieldWidth aligns the values of the stats report.
const fieldWidth = 8

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the result cache",
	}

	cmd.AddCommand(c.newCacheStatsCmd())
	cmd.AddCommand(c.newCacheCheckCmd())
	cmd.AddCommand(c.newCacheCleanCmd())
	return cmd
}

func (c *CLI) newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the content of the result cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.openOptions()
			opts.ReadOnly = true

			session, err := c.app.Open(opts)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			stats := session.CacheStats()
			cfg := session.Config()

			p := output.NewPrinter(cmd.OutOrStdout())
			p.Heading("Result cache")
			p.Field(fieldWidth, "path", stats.Path)
			p.Field(fieldWidth, "format", cfg.Cache.Format)
			p.Field(fieldWidth, "entries", stats.Entries)
			p.Field(fieldWidth, "size", humanize.Bytes(uint64(max(stats.Size, 0))))
			if stats.Entries > 0 {
				p.Field(fieldWidth, "oldest", humanize.Time(stats.Oldest))
				p.Field(fieldWidth, "newest", humanize.Time(stats.Newest))
			}
			if cfg.Cache.Expiry > 0 {
				now := time.Now()
				p.Field(fieldWidth, "expiry", strings.TrimSpace(humanize.RelTime(now.Add(-cfg.Cache.Expiry), now, "", "")))
			}
			return p.Err()
		},
	}
}

func (c *CLI) newCacheCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Reset the result cache if the lock file or build config changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			session, err := c.app.Open(c.openOptions())
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := session.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()

			reset, err := session.CheckConfigFiles()
			if err != nil {
				return err
			}

			p := output.NewPrinter(cmd.OutOrStdout())
			if reset {
				p.Status(style.Warning, style.Caution, "result cache reset")
			} else {
				p.Status(style.Compiled, style.Success, "result cache is up to date")
			}
			return p.Err()
		},
	}
}

func (c *CLI) newCacheCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the result cache file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Clean(c.openOptions())
		},
	}
}
