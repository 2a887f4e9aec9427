// Package gateway provides access to the sources a dataset can be built
// from: the live GitHub API and pre-built snapshot documents. It abstracts
// away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
)

// ErrSourceUnavailable marks failures that abort a whole load: the
// snapshot is missing or corrupt, or the organization listing failed.
// Per-repository failures never carry it.
var ErrSourceUnavailable = errors.New("source unavailable")

// Fetcher defines the behavior of a gateway for fetching raw organization
// activity from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context, org string) ([]domain.Repository, error)
	FetchCommits(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.SugaredLogger
}

// listReposQuery pages through an organization's repositories carrying the
// flags and topics the pipeline needs to filter and classify them, plus the
// all-time default-branch commit count.
type listReposQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name             string
				NameWithOwner    string
				Description      string
				IsPrivate        bool
				IsFork           bool
				IsArchived       bool
				IsDisabled       bool
				PushedAt         githubv4.DateTime
				RepositoryTopics struct {
					Nodes []struct {
						Topic struct {
							Name string
						}
					}
				} `graphql:"repositoryTopics(first: 20)"`
				DefaultBranchRef *struct {
					Target struct {
						Commit struct {
							History struct {
								TotalCount int
							} `graphql:"history(first: 0)"`
						} `graphql:"... on Commit"`
					}
				}
			}
		} `graphql:"repositories(first: 100, after: $cursor, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"organization(login: $org)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *zap.SugaredLogger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// ListRepositories pages through the organization's repository listing
// until the source reports no further pages.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	g.logger.Infof("listing repositories for %s", org)
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var repos []domain.Repository
	for {
		var q listReposQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}
		for _, n := range q.Organization.Repositories.Nodes {
			topics := make([]string, 0, len(n.RepositoryTopics.Nodes))
			for _, t := range n.RepositoryTopics.Nodes {
				topics = append(topics, t.Topic.Name)
			}
			repo := domain.Repository{
				Name:        n.Name,
				FullName:    n.NameWithOwner,
				Description: n.Description,
				Topics:      topics,
				Private:     n.IsPrivate,
				Fork:        n.IsFork,
				Archived:    n.IsArchived,
				Disabled:    n.IsDisabled,
			}
			if !n.PushedAt.IsZero() {
				pushedAt := n.PushedAt.Time
				repo.PushedAt = &pushedAt
			}
			if n.DefaultBranchRef != nil {
				repo.TotalCommits = n.DefaultBranchRef.Target.Commit.History.TotalCount
			}
			repos = append(repos, repo)
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Debugf("  fetching next page of repositories for %s...", org)
	}
	g.logger.Infof("listed %d repositories for %s", len(repos), org)
	return repos, nil
}

// FetchCommits pages through a repository's commit history, optionally
// constrained to commits at or after since. A repository that has never
// been committed to yields an empty result, not an error.
func (g *GitHubGateway) FetchCommits(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error) {
	owner, name, ok := strings.Cut(repo.FullName, "/")
	if !ok {
		return nil, fmt.Errorf("malformed repository name %q", repo.FullName)
	}
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	if !since.IsZero() {
		opts.Since = since
	}
	commits := []domain.Commit{}
	for {
		page, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			// GitHub answers 409 for repositories with no commits yet.
			if resp != nil && resp.StatusCode == http.StatusConflict {
				g.logger.Debugf("skipping %s: no commits yet", repo.FullName)
				return commits, nil
			}
			return nil, fmt.Errorf("failed to list commits for %s: %w", repo.FullName, err)
		}
		for _, rc := range page {
			commits = append(commits, domain.Commit{
				Login:      rc.GetAuthor().GetLogin(),
				AuthorName: rc.GetCommit().GetAuthor().GetName(),
				AuthoredAt: rc.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugf("  fetching next page of commits for %s...", repo.FullName)
	}
	return commits, nil
}
