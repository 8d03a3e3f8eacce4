// Package commands implements CLI command handlers for assemblyline.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assemblyline/pkg/config"
	"github.com/Sumatoshi-tech/assemblyline/pkg/index"
	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
	"github.com/Sumatoshi-tech/assemblyline/pkg/render"
	"github.com/Sumatoshi-tech/assemblyline/pkg/session"
	"github.com/Sumatoshi-tech/assemblyline/pkg/version"
)

// ErrInvalidView is returned for a --view value other than tree, list or both.
var ErrInvalidView = errors.New("view must be one of: tree, list, both")

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfg        *config.Config
	providers  observability.Providers
	configPath string
	verbose    bool
	noColor    bool
}

// NewRootCommand builds the assemblyline command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "assemblyline",
		Short: "Assembly line record store",
		Long: `assemblyline keeps assembly-line records ordered by product id and by
processing time, each served by a binary search tree and a sorted list.

Commands:
  list      Print a feed in either ordering
  shell     Interactive menu to display, insert and remove records
  generate  Write sample records
  check     Load a feed and verify the index`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ./assemblyline.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newShellCommand(a))
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads configuration and starts observability for cmd.
func (a *app) setup(cmd *cobra.Command, mode observability.AppMode) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	if a.noColor {
		cfg.Display.Color = false
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = cfg.Telemetry.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.Prometheus = mode == observability.ModeShell && cfg.Telemetry.MetricsAddr != ""
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = strings.EqualFold(cfg.Logging.Format, "json")
	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.cfg = cfg
	a.providers = providers

	return nil
}

func (a *app) logger() *slog.Logger {
	return a.providers.Logger
}

// shutdown flushes telemetry; failures are logged, not returned.
func (a *app) shutdown() {
	if a.providers.Shutdown == nil {
		return
	}

	err := a.providers.Shutdown(context.Background())
	if err != nil {
		a.logger().Warn("observability shutdown failed", "error", err)
	}
}

// newSession creates a session wired to the configured capacity and
// telemetry.
func (a *app) newSession() (*session.Session, error) {
	metrics, err := observability.NewIndexMetrics(a.providers.Meter)
	if err != nil {
		return nil, err
	}

	return session.New(
		session.WithCapacity(a.cfg.Index.Capacity),
		session.WithLogger(a.providers.Logger),
		session.WithTracer(a.providers.Tracer),
		session.WithMetrics(metrics),
	), nil
}

// renderer creates a renderer over cmd's output in the given format.
func (a *app) renderer(cmd *cobra.Command, format string) (*render.Renderer, error) {
	parsed, err := render.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return render.New(cmd.OutOrStdout(), parsed, a.cfg.Display.Color), nil
}

// parseViews expands a --view value.
func parseViews(view string) ([]index.View, error) {
	switch strings.ToLower(view) {
	case "tree":
		return []index.View{index.TreeView}, nil
	case "list":
		return []index.View{index.ListView}, nil
	case "both":
		return []index.View{index.TreeView, index.ListView}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
