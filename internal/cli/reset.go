package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all solves and favorites",
	Long: `Delete the solve history and algorithm favorites. Settings are kept.

Without --yes you are asked to confirm.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	n := len(ctrl.Solves())

	if !resetYes {
		fmt.Fprintf(out, "Delete %d solves and all favorites? Type 'yes' to confirm: ", n)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := ctrl.Reset(); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d solves.\n", n)
	return nil
}
