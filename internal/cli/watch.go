package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/browse"
	"github.com/roach88/recipebox/internal/navigation"
)

const shutdownTimeout = 5 * time.Second

// NewWatchCommand follows the recipe list live until interrupted.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var (
		cats        []int64
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the recipe list every time it changes",
		Long: `Print the recipe list, then print it again whenever another process
changes the collection. Repeat --category to follow a filtered list.

With --metrics-addr (or metrics.addr in the config file) the command also
serves Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			addr := app.Config.Metrics.Addr
			if cmd.Flags().Changed("metrics-addr") {
				addr = metricsAddr
			}

			home := browse.NewHome(ctx, app.Repo, app.Nav, browse.WithLogger(app.Log))
			defer home.Close()
			if len(cats) > 0 {
				home.SetFilter(categoryIDs(cats))
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return printRecipes(ctx, cmd.OutOrStdout(), opts, home)
			})
			g.Go(func() error {
				err := app.Nav.Run(ctx, func(e navigation.Event) {
					app.Log.Info("navigate", "event", e.String())
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
			if addr != "" {
				g.Go(func() error {
					return serveMetrics(ctx, addr, app)
				})
			}

			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Int64SliceVar(&cats, "category", nil, "category id (repeatable)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func printRecipes(ctx context.Context, w io.Writer, opts *RootOptions, home *browse.Home) error {
	sub := home.Recipes()
	defer sub.Cancel()

	out := &OutputFormatter{Format: opts.Format, Writer: w}
	for {
		rs, ok := sub.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return home.Err()
		}
		err := out.Success(recipeViews(rs), func(w io.Writer) {
			fmt.Fprintf(w, "-- %d recipes\n", len(rs))
			writeRecipeList(w, rs)
		})
		if err != nil {
			return err
		}
	}
}

// serveMetrics exposes the app registry until ctx is done.
func serveMetrics(ctx context.Context, addr string, app *App) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          pslog.LogLoggerWithLevel(app.Log, pslog.ErrorLevel),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Info("metrics listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
