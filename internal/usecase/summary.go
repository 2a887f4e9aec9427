package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
)

// DistributionSummary describes the shape of per-repository commit
// activity across a dataset.
type DistributionSummary struct {
	ActiveRepos   int
	TotalCommits  int
	MeanCommits   float64
	MedianCommits float64
	P90Commits    float64
}

// Summarize computes commit-count distribution figures for a dataset.
// A dataset with no repositories yields the zero summary.
func Summarize(ds *domain.Dataset) (DistributionSummary, error) {
	var s DistributionSummary
	counts := make([]float64, 0, len(ds.Repos))
	for _, repo := range ds.Repos {
		counts = append(counts, float64(repo.Commits))
		s.TotalCommits += repo.Commits
		if repo.Commits > 0 {
			s.ActiveRepos++
		}
	}
	if len(counts) == 0 {
		return s, nil
	}
	if len(counts) == 1 {
		s.MeanCommits = counts[0]
		s.MedianCommits = counts[0]
		s.P90Commits = counts[0]
		return s, nil
	}

	var err error
	if s.MeanCommits, err = stats.Mean(counts); err != nil {
		return s, fmt.Errorf("failed to compute mean commits: %w", err)
	}
	if s.MedianCommits, err = stats.Median(counts); err != nil {
		return s, fmt.Errorf("failed to compute median commits: %w", err)
	}
	if s.P90Commits, err = stats.Percentile(counts, 90); err != nil {
		return s, fmt.Errorf("failed to compute p90 commits: %w", err)
	}
	return s, nil
}
