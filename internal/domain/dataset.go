// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"sort"
	"time"
)

// Leaderboard size caps for the generated dataset.
const (
	TopReposLimit        = 10
	TopContributorsLimit = 15
)

// Repository is a raw repository record as reported by the source,
// before classification and aggregation.
type Repository struct {
	Name         string
	FullName     string
	Description  string
	Topics       []string
	Private      bool
	Fork         bool
	Archived     bool
	Disabled     bool
	PushedAt     *time.Time
	TotalCommits int
}

// Commit is a single raw commit record from a repository's history.
type Commit struct {
	Login      string
	AuthorName string
	AuthoredAt time.Time
}

// AuthorKey returns the identity commits are grouped under: the
// authenticated login when present, otherwise the free-text author name,
// otherwise "unknown". Identities are merged case-sensitively exactly as
// reported.
func (c Commit) AuthorKey() string {
	if c.Login != "" {
		return c.Login
	}
	if c.AuthorName != "" {
		return c.AuthorName
	}
	return "unknown"
}

// ContributorCount is one contributor's commit count within a repository.
type ContributorCount struct {
	Login   string `json:"login"`
	Commits int    `json:"commits"`
}

// RepositorySummary holds the aggregated activity for a single repository.
// It is the core domain entity of this application.
type RepositorySummary struct {
	Name         string             `json:"name"`
	FullName     string             `json:"full"`
	Topics       []string           `json:"topics"`
	Track        string             `json:"track"`
	Private      bool               `json:"private"`
	Commits      int                `json:"commits_count"`
	TotalCommits int                `json:"total_commits"`
	LastCommitAt *time.Time         `json:"last_commit_at,omitempty"`
	Contributors []ContributorCount `json:"contributors"`
}

// LeaderboardEntry is one ranked row of a leaderboard: a repository name
// or a contributor login together with its commit count.
type LeaderboardEntry struct {
	Key     string `json:"key"`
	Commits int    `json:"commits"`
}

// Leaderboards holds the ranked, size-capped views derived from a
// dataset's repositories.
type Leaderboards struct {
	TopRepos        []LeaderboardEntry `json:"top_repos"`
	TopContributors []LeaderboardEntry `json:"top_contributors"`
}

// Dataset is the root aggregate for one collection run. It is built fresh
// per run, immutable once built, and replaced wholesale on the next run.
type Dataset struct {
	Org          string              `json:"org"`
	GeneratedAt  time.Time           `json:"generated_at"`
	WindowDays   int                 `json:"window_days"`
	ReposTotal   int                 `json:"repos_total"`
	Repos        []RepositorySummary `json:"repos"`
	Leaderboards Leaderboards        `json:"leaderboards"`
}

// TopRepositories ranks repositories by commit count, descending, capped
// at limit. Equal counts keep the input order.
func TopRepositories(repos []RepositorySummary, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(repos))
	for _, r := range repos {
		entries = append(entries, LeaderboardEntry{Key: r.Name, Commits: r.Commits})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Commits > entries[j].Commits
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopContributors sums each contributor's commits across all repositories
// and ranks them descending, capped at limit. A contributor appearing in
// several repositories accumulates; equal totals keep first-seen order.
func TopContributors(repos []RepositorySummary, limit int) []LeaderboardEntry {
	totals := make(map[string]int)
	var order []string
	for _, r := range repos {
		for _, c := range r.Contributors {
			if _, seen := totals[c.Login]; !seen {
				order = append(order, c.Login)
			}
			totals[c.Login] += c.Commits
		}
	}
	entries := make([]LeaderboardEntry, 0, len(order))
	for _, login := range order {
		entries = append(entries, LeaderboardEntry{Key: login, Commits: totals[login]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Commits > entries[j].Commits
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
