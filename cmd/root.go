package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the easel CLI.
// It is the entry point when the binary is called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "easel",
	Short: "Run easel data apps under any execution context",
	Long: `easel runs a single app definition under three execution contexts:
an interactive server with live client connections, a non-interactive
headless script run, and an in-browser virtual machine context.

The CLI launches app binaries with the right ambient signals set so the
service layer inside the app selects the matching implementation:

  easel run ./myapp     runs the app headless (console output)
  easel serve ./myapp   runs the app as an interactive server
  easel check ./myapp/  validates the app's data configuration`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is typically called from the main package to inject the build
// version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application. It is called
// by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "easel version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}
