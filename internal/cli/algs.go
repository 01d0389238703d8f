package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/algorithms"
	"github.com/SeamusWaldron/cubetrainer/internal/session"
)

var algsStep string

var algsCmd = &cobra.Command{
	Use:   "algs",
	Short: "Browse the CFOP algorithm catalog",
}

var algsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List algorithms",
	Long: `List catalog algorithms grouped by step. Learned algorithms are marked
with a star.

Steps: cross, f2l, oll, pll`,
	RunE: runAlgsList,
}

var algsLearnCmd = &cobra.Command{
	Use:   "learn <id>",
	Short: "Mark or unmark an algorithm as learned",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlgsLearn,
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show learning progress per step",
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(algsCmd)
	rootCmd.AddCommand(progressCmd)

	algsCmd.AddCommand(algsListCmd)
	algsListCmd.Flags().StringVar(&algsStep, "step", "", "Only list one step")

	algsCmd.AddCommand(algsLearnCmd)
}

func runAlgsList(cmd *cobra.Command, args []string) error {
	steps := algorithms.Steps
	if algsStep != "" {
		step, err := algorithms.ParseStep(algsStep)
		if err != nil {
			return err
		}
		steps = []algorithms.Step{step}
	}

	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	for i, step := range steps {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, titleStyle.Render(step.DisplayName()))
		for _, alg := range ctrl.Catalog().ByStep(step) {
			printAlgorithm(out, ctrl, alg)
		}
	}
	return nil
}

func printAlgorithm(out io.Writer, ctrl *session.Controller, alg algorithms.Algorithm) {
	mark := " "
	if ctrl.IsFavorite(alg.ID) {
		mark = bestStyle.Render("★")
	}
	fmt.Fprintf(out, "%s %-16s %-24s %s  %s\n",
		mark, alg.ID, alg.Name, labelStyle.Render(alg.Stars()), valueStyle.Render(alg.Notation))
}

func runAlgsLearn(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	id := strings.TrimSpace(args[0])
	learned, err := ctrl.ToggleFavorite(id)
	if err != nil {
		return err
	}

	alg, _ := ctrl.Catalog().Get(id)
	if learned {
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s (%s) as learned.\n", alg.Name, alg.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Unmarked %s (%s).\n", alg.Name, alg.ID)
	}
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Learning progress"))
	fmt.Fprintln(out)
	for _, line := range progressLines(ctrl.Progress(), 30) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// progressLines renders one bar per step.
func progressLines(steps []algorithms.StepProgress, width int) []string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage())

	lines := make([]string, 0, len(steps))
	for _, p := range steps {
		lines = append(lines, fmt.Sprintf("%-6s %s %s",
			p.Step.DisplayName(),
			bar.ViewAs(p.Ratio()),
			labelStyle.Render(fmt.Sprintf("%d/%d (%d%%)", p.Learned, p.Total, p.Percent))))
	}
	return lines
}
