package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
	"github.com/Sumatoshi-tech/assemblyline/pkg/render"
	"github.com/Sumatoshi-tech/assemblyline/pkg/session"
)

const metricsShutdownTimeout = 2 * time.Second

func newShellCommand(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu to display, insert and remove records",
		Long: `Load a feed and open the assembly line management menu. Each display,
insert and remove reports the time taken by the tree and by the list.

When telemetry.metrics_addr is set, Prometheus metrics are served on
/metrics for the lifetime of the shell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup(cmd, observability.ModeShell)
			if err != nil {
				return err
			}
			defer a.shutdown()

			return runShell(cmd, a, input, cmd.Flags().Changed("input"))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "feed file (default from config)")

	return cmd
}

func runShell(cmd *cobra.Command, a *app, input string, explicit bool) error {
	ctx := cmd.Context()
	input = override(input, a.cfg.Input.Path)

	sess, err := a.newSession()
	if err != nil {
		return err
	}

	_, err = sess.Load(ctx, input, a.cfg.Input.Strict)

	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		a.logger().WarnContext(ctx, "no feed found, starting empty", "path", input)
	default:
		return err
	}

	if a.providers.MetricsHandler != nil {
		stop, serveErr := serveMetrics(a, a.cfg.Telemetry.MetricsAddr, a.providers.MetricsHandler)
		if serveErr != nil {
			return serveErr
		}
		defer stop()
	}

	renderer, err := a.renderer(cmd, string(render.FormatTable))
	if err != nil {
		return err
	}

	return session.NewShell(sess, cmd.InOrStdin(), cmd.OutOrStdout(), renderer).Run(ctx)
}

// serveMetrics exposes handler on addr until the returned stop is called.
func serveMetrics(a *app, addr string, handler http.Handler) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: metricsShutdownTimeout}

	go func() {
		serveErr := server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.logger().Error("metrics server failed", "error", serveErr)
		}
	}()

	a.logger().Info("serving metrics", "addr", listener.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}, nil
}
