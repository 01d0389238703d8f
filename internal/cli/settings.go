package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/session"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting.

Keys:
  theme            dark or light
  animations       true or false
  notation         notation label, e.g. WCA
  inspection       true or false; start the timer with a 15 second inspection
  scramble_length  moves per scramble, 1-100`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	s := ctrl.Settings()
	for _, key := range session.SettingKeys {
		v, err := s.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", key)), v)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	key, value := args[0], args[1]
	if err := ctrl.UpdateSettings(func(s *session.Settings) error {
		return s.Set(key, value)
	}); err != nil {
		return err
	}

	v, _ := ctrl.Settings().Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
	return nil
}
