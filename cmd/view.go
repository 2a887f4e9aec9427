// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/avalanche-team1-africa/org-pulse/internal/config"
	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
	"github.com/avalanche-team1-africa/org-pulse/internal/gateway"
	"github.com/avalanche-team1-africa/org-pulse/internal/usecase"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Renders leaderboards and a filtered repository table",
	Long: `Loads a dataset from a snapshot file or URL and renders the top
repository and top contributor leaderboards together with a filterable
repository table. Filters can narrow the table by track, minimum commit
count, a search term, and private-repository visibility.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		//nolint:errcheck
		defer logger.Sync()

		cfg := config.FromEnv()
		snapshot, _ := cmd.Flags().GetString("snapshot")

		criteria := usecase.Criteria{MinCommits: cfg.MinCommits}
		criteria.Track, _ = cmd.Flags().GetString("track")
		if cmd.Flags().Changed("min-commits") {
			criteria.MinCommits, _ = cmd.Flags().GetInt("min-commits")
		}
		criteria.Search, _ = cmd.Flags().GetString("search")
		criteria.IncludePrivate, _ = cmd.Flags().GetBool("include-private")

		source := gateway.NewSnapshotSource(snapshot)
		dataset, err := source.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
			os.Exit(1)
		}

		rows := usecase.ApplyFilters(dataset, criteria)
		summary, err := usecase.Summarize(dataset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to summarize dataset: %v\n", err)
			os.Exit(1)
		}

		renderDataset(os.Stdout, dataset, rows, summary)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringP("snapshot", "s", config.DefaultSnapshotPath, "Snapshot path or URL to load")
	viewCmd.Flags().StringP("track", "t", usecase.AllTracks, "Only show repositories on this track")
	viewCmd.Flags().IntP("min-commits", "m", 0, "Only show repositories with at least this many commits")
	viewCmd.Flags().String("search", "", "Only show repositories matching this term (name, track, or contributor)")
	viewCmd.Flags().Bool("include-private", false, "Include private repositories in the table")
}

// renderDataset writes the leaderboards, the filtered repository table,
// and the distribution summary line.
func renderDataset(w io.Writer, ds *domain.Dataset, rows []domain.RepositorySummary, summary usecase.DistributionSummary) {
	fmt.Fprintf(w, "Organization %s, last %d days (generated %s)\n",
		ds.Org, ds.WindowDays, ds.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(w, "\nTop repositories\n")
	renderLeaderboard(w, ds.Leaderboards.TopRepos)

	fmt.Fprintf(w, "\nTop contributors\n")
	renderLeaderboard(w, ds.Leaderboards.TopContributors)

	fmt.Fprintf(w, "\nRepositories (%d of %d)\n", len(rows), len(ds.Repos))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTRACK\tCOMMITS\tCONTRIBUTORS\tLAST COMMIT")
	for _, row := range rows {
		lastCommit := "n/a"
		if row.LastCommitAt != nil {
			lastCommit = row.LastCommitAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			row.Name, row.Track, row.Commits, len(row.Contributors), lastCommit)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d active repos, %d commits (mean %.1f, median %.1f, p90 %.1f)\n",
		summary.ActiveRepos, summary.TotalCommits,
		summary.MeanCommits, summary.MedianCommits, summary.P90Commits)
}

func renderLeaderboard(w io.Writer, entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (no activity)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i, entry := range entries {
		fmt.Fprintf(tw, "%d.\t%s\t%d\n", i+1, entry.Key, entry.Commits)
	}
	tw.Flush()
}
