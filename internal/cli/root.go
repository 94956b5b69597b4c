// Package cli implements the liveicon CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "liveicon",
	Short: "Animated tray icons that run a command when clicked",
	Long: `liveicon turns an animated GIF and a shell command into a small agent.
The agent shows the GIF as an animated tray icon and runs the command when
activated, notifying you if it fails.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Noisy logging, including every command executed")
	rootCmd.SilenceErrors = true

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
