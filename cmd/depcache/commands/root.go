// Package commands implements the CLI commands for depcache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.trai.ch/depcache/internal/adapters/telemetry"
	"go.trai.ch/depcache/internal/app"
	"go.trai.ch/depcache/internal/build"
	"go.trai.ch/depcache/internal/core/ports"
)

// CLI represents the command line interface for depcache.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	trace      bool
	logJSON    bool
}

// Application represents the application logic interface.
type Application interface {
	Open(opts app.OpenOptions) (*app.Session, error)
	Watch(ctx context.Context, opts app.OpenOptions, entries []string, build app.BuildOptions) error
	Clean(opts app.OpenOptions) error
	Metrics() ports.Metrics
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "depcache",
		Short:         "An incremental result cache keyed by dependency fingerprints",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to depcache.yaml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().BoolVar(&c.trace, "trace", false, "Log every finished span")
	rootCmd.PersistentFlags().BoolVar(&c.logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		c.setup()
	}

	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) setup() {
	if c.logJSON {
		if s, ok := c.logger.(jsonSwitcher); ok {
			s.SetJSON(true)
		}
	}
	if c.trace {
		otel.SetTracerProvider(telemetry.NewTracerProvider(c.logger))
	}
}

// openOptions returns the options shared by every command that opens a configuration.
func (c *CLI) openOptions() app.OpenOptions {
	return app.OpenOptions{ConfigPath: c.configPath}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
