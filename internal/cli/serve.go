package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/feed"
	"github.com/SeamusWaldron/cubetrainer/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the display feed without the timer UI",
	Long: `Serve the read-only display feed: GET /api/state returns the current
timer, dashboard, recent solves, and progress; GET /ws streams updates.

The timer UI serves the same feed with 'cubetrainer timer --feed'.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: feed.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Feed.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving display feed on http://%s (Ctrl+C to stop)\n", addr)
	return newFeedServer(a, ctrl, addr).ListenAndServe(ctx)
}

func newFeedServer(a *app, ctrl *session.Controller, addr string) *feed.Server {
	return feed.NewServer(ctrl, feed.Options{
		Addr:           addr,
		AllowedOrigins: a.cfg.Feed.AllowedOrigins,
		Logger:         a.log.Logger,
	})
}
