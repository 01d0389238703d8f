package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer"
)

var (
	scrambleCount  int
	scrambleLength int
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print random scrambles",
	Long: `Print one or more random-move scrambles. Consecutive moves never turn the
same face, and the length defaults to the scramble_length setting.

Examples:
  cubetrainer scramble
  cubetrainer scramble -n 5 --length 25`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleCount, "count", "n", 1, "Number of scrambles")
	scrambleCmd.Flags().IntVar(&scrambleLength, "length", 0, "Moves per scramble (default: scramble_length setting)")
}

func runScramble(cmd *cobra.Command, args []string) error {
	if scrambleCount < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	length := scrambleLength
	if length == 0 {
		a, err := openApp(appOptions{})
		if err != nil {
			return err
		}
		ctrl := a.newController()
		length = ctrl.Settings().ScrambleLength
		ctrl.Close()
		a.Close()
	}
	if length < 1 {
		return fmt.Errorf("length must be at least 1")
	}

	gen := cubetrainer.NewGenerator(nil)
	out := cmd.OutOrStdout()
	for i := 1; i <= scrambleCount; i++ {
		s := gen.Generate(length)
		if scrambleCount == 1 {
			fmt.Fprintln(out, s)
			continue
		}
		fmt.Fprintf(out, "%2d. %s\n", i, s)
	}
	return nil
}
