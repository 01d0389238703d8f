package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/logging"
	"github.com/SeamusWaldron/cubetrainer/internal/smartcube"
)

var (
	timerInspection bool
	timerFeed       string
	timerCube       bool
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Interactive speedcubing timer",
	Long: `Start the interactive timer.

Keyboard shortcuts:
  space      - Start/stop the timer (starts inspection when enabled)
  i          - Start a 15 second inspection
  n          - New scramble
  t          - Turn inspection on or off
  tab        - Switch between Timer, Dashboard, Algorithms, Progress
  ctrl+r     - Delete all solves
  q/ctrl+c   - Quit

Every solve is saved as soon as the timer stops. Logs for the session are
written to the log directory; list them with 'cubetrainer logs'.`,
	RunE: runTimer,
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.Flags().BoolVar(&timerInspection, "inspection", false, "Use inspection for this session")
	timerCmd.Flags().StringVar(&timerFeed, "feed", "", "Serve the display feed on this address")
	timerCmd.Flags().Lookup("feed").NoOptDefVal = "config"
	timerCmd.Flags().BoolVar(&timerCube, "cube", false, "Mirror the timer on a GoCube backlight")
}

func runTimer(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{fileLog: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	timer := ctrl.Timer()
	if timerInspection {
		timer.SetInspection(true)
	}
	unlog := timer.Subscribe(logging.TimerEvents(a.log.Logger))
	defer unlog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := newTimerModel(ctrl)
	model.logPath = a.log.FilePath()

	if timerFeed != "" {
		addr := timerFeed
		if addr == "config" {
			addr = a.cfg.Feed.Addr
		}
		srv := newFeedServer(a, ctrl, addr)
		model.feedAddr = addr
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				a.logger().Error().Err(err).Msg("feed server failed")
			}
		}()
	}

	if timerCube {
		model.cubeStatus = "Cube: connecting..."
		model.connect = func() tea.Msg {
			client, err := connectCube(ctx, a)
			if err != nil {
				return cubeFailedMsg{err: err}
			}
			backlight := smartcube.NewBacklight(client, a.log.Logger)
			go backlight.Run(ctx)
			return cubeConnectedMsg{client: client, backlight: backlight}
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	cancel()
	if model.cube != nil {
		model.cube.Disconnect()
	}
	if path := a.log.FilePath(); path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Log saved to: %s\n", path)
	}
	return nil
}
