// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avalanche-team1-africa/org-pulse/internal/config"
	"github.com/avalanche-team1-africa/org-pulse/internal/gateway"
	"github.com/avalanche-team1-africa/org-pulse/internal/track"
	"github.com/avalanche-team1-africa/org-pulse/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects organization activity and writes a snapshot JSON",
	Long: `Collects commit activity for every active repository in a GitHub
organization over the activity window, aggregates it into per-repository
summaries and leaderboards, and writes the dataset as an indented JSON
snapshot for the dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		//nolint:errcheck
		defer logger.Sync()

		// Environment supplies the defaults; flags override.
		cfg := config.FromEnv()
		if org, _ := cmd.Flags().GetString("org"); org != "" {
			cfg.Org = org
		}
		if cmd.Flags().Changed("window") {
			cfg.WindowDays, _ = cmd.Flags().GetInt("window")
		}
		if cmd.Flags().Changed("track-map") {
			cfg.TrackMapPath, _ = cmd.Flags().GetString("track-map")
		}
		out, _ := cmd.Flags().GetString("out")

		if cfg.Org == "" {
			fmt.Fprintln(os.Stderr, "Error: no organization given; use --org or set ORG.")
			os.Exit(1)
		}
		if cfg.Token == "" {
			fmt.Fprintln(os.Stderr, "Error: GH_TOKEN or GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}
		if cfg.WindowDays <= 0 {
			fmt.Fprintln(os.Stderr, "Error: --window must be a positive number of days.")
			os.Exit(1)
		}

		classifier := track.Classifier{}
		overrides, err := track.LoadOverrides(cfg.TrackMapPath)
		switch {
		case err == nil:
			classifier.Overrides = overrides
		case errors.Is(err, os.ErrNotExist):
			// No track map is fine; topics and keywords still apply.
		default:
			fmt.Fprintf(os.Stderr, "Failed to load track map: %v\n", err)
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		collector := usecase.NewCollector(githubGateway, classifier, logger)

		dataset, err := collector.Collect(ctx, cfg.Org, cfg.WindowDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to collect activity: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(dataset, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal dataset to JSON: %v\n", err)
			os.Exit(1)
		}

		if out == "-" {
			fmt.Println(string(jsonData))
			return
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create snapshot directory: %v\n", err)
				os.Exit(1)
			}
		}
		if err := os.WriteFile(out, jsonData, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write snapshot: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("wrote snapshot to %s", out)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("org", "o", "", "Target GitHub organization name (or ORG env)")
	collectCmd.Flags().IntP("window", "w", config.DefaultWindowDays, "Activity window in days")
	collectCmd.Flags().String("track-map", config.DefaultTrackMapPath, "Path to the track override map")
	collectCmd.Flags().String("out", config.DefaultSnapshotPath, `Snapshot output path ("-" for stdout)`)
}
