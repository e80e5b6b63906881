package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classroom-service",
	Short: "Classroom service: readiness, session window, room streams, ECPay callbacks",
	Long:  `HTTP + SSE/WebSocket API. Commands: api, migrate, seed, checkmac.`,
	RunE:  runAPI, // default: run API (same as "classroom-service api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(checkmacCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
