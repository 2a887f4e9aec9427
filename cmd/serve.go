// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avalanche-team1-africa/org-pulse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the static dashboard directory over HTTP",
	Long: `Serves the static dashboard assets (including the stats.json
snapshot) from a local directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		//nolint:errcheck
		defer logger.Sync()

		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")

		siteServer := server.NewSiteServer(dir, logger)
		if err := siteServer.Run(port); err != nil {
			fmt.Fprintf(os.Stderr, "Server exited: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("dir", "d", "site", "Directory of static dashboard assets")
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
