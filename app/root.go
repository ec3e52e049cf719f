// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attenda",
	Short: "Attenda is an attendance and leave administration service",
	Long: `Attenda is an attendance and leave administration service providing
leave requests, on-duty logs and time-off logs with a shared approval
workflow, scoped capabilities and a rank-based role hierarchy.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
