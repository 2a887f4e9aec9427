// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
	"github.com/avalanche-team1-africa/org-pulse/internal/gateway"
	"github.com/avalanche-team1-africa/org-pulse/internal/track"
)

// defaultMaxInFlight bounds concurrent commit fetches so a large
// organization does not burn through the API quota in one burst.
const defaultMaxInFlight = 8

// Collector is the use case that turns an organization's raw repository
// and commit records into an aggregated activity dataset.
type Collector struct {
	fetcher    gateway.Fetcher
	classifier track.Classifier
	logger     *zap.SugaredLogger

	// MaxInFlight caps concurrent per-repository commit fetches.
	// Values below 1 fall back to the default.
	MaxInFlight int
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, classifier track.Classifier, logger *zap.SugaredLogger) *Collector {
	return &Collector{
		fetcher:    fetcher,
		classifier: classifier,
		logger:     logger,
	}
}

// Collect performs the main business logic: it lists the organization's
// repositories, fetches each active repository's commits concurrently, and
// reduces them into per-repository summaries and leaderboards.
//
// Only the listing can fail the run; a failed commit fetch degrades that
// one repository to an empty commit list. The result is deterministic for
// a fixed set of source records.
func (c *Collector) Collect(ctx context.Context, org string, windowDays int) (*domain.Dataset, error) {
	c.logger.Infof("collecting activity for %s over the last %d days", org, windowDays)

	repos, err := c.fetcher.ListRepositories(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gateway.ErrSourceUnavailable, err)
	}

	generatedAt := time.Now().UTC()
	var since time.Time
	if windowDays > 0 {
		since = generatedAt.AddDate(0, 0, -windowDays)
	}

	active := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		if r.Archived || r.Disabled || r.Fork {
			continue
		}
		active = append(active, r)
	}

	// Fan out commit fetches with a bounded number in flight. Each worker
	// writes only its own result slot and never returns an error, so one
	// failed repository cannot cancel its siblings; the join below is the
	// sole synchronization point.
	commitsByRepo := make([][]domain.Commit, len(active))
	eg, egCtx := errgroup.WithContext(ctx)
	limit := c.MaxInFlight
	if limit < 1 {
		limit = defaultMaxInFlight
	}
	eg.SetLimit(limit)
	for i, repo := range active {
		i, repo := i, repo
		eg.Go(func() error {
			commits, err := c.fetcher.FetchCommits(egCtx, repo, since)
			if err != nil {
				c.logger.Warnf("failed to fetch commits for %s, keeping it with no activity: %v", repo.FullName, err)
				return nil
			}
			commitsByRepo[i] = commits
			return nil
		})
	}
	_ = eg.Wait()
	c.logger.Infof("fetched commits for %d active repositories", len(active))

	summaries := make([]domain.RepositorySummary, 0, len(active))
	for i, repo := range active {
		summaries = append(summaries, c.summarize(repo, commitsByRepo[i]))
	}

	ds := &domain.Dataset{
		Org:         org,
		GeneratedAt: generatedAt,
		WindowDays:  windowDays,
		ReposTotal:  len(repos),
		Repos:       summaries,
		Leaderboards: domain.Leaderboards{
			TopRepos:        domain.TopRepositories(summaries, domain.TopReposLimit),
			TopContributors: domain.TopContributors(summaries, domain.TopContributorsLimit),
		},
	}
	c.logger.Infof("aggregated %d active repositories (%d listed)", len(summaries), len(repos))
	return ds, nil
}

// summarize reduces one repository's commit list into its summary row.
// Contributors are counted in first-seen order, then stable-sorted by
// commit count so equal counts keep that order.
func (c *Collector) summarize(repo domain.Repository, commits []domain.Commit) domain.RepositorySummary {
	counts := make(map[string]int)
	var order []string
	var lastCommitAt *time.Time
	for _, commit := range commits {
		key := commit.AuthorKey()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
		if !commit.AuthoredAt.IsZero() && (lastCommitAt == nil || commit.AuthoredAt.After(*lastCommitAt)) {
			authoredAt := commit.AuthoredAt
			lastCommitAt = &authoredAt
		}
	}

	contributors := make([]domain.ContributorCount, 0, len(order))
	for _, login := range order {
		contributors = append(contributors, domain.ContributorCount{Login: login, Commits: counts[login]})
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Commits > contributors[j].Commits
	})

	if lastCommitAt == nil {
		lastCommitAt = repo.PushedAt
	}

	return domain.RepositorySummary{
		Name:         repo.Name,
		FullName:     repo.FullName,
		Topics:       repo.Topics,
		Track:        c.classifier.Classify(repo),
		Private:      repo.Private,
		Commits:      len(commits),
		TotalCommits: repo.TotalCommits,
		LastCommitAt: lastCommitAt,
		Contributors: contributors,
	}
}
