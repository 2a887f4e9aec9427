package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
	"github.com/avalanche-team1-africa/org-pulse/internal/gateway"
	"github.com/avalanche-team1-africa/org-pulse/internal/track"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It lets us simulate the GitHub gateway without real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

// FetchCommits keys expectations on the repository's full name so each
// repository in a test can behave differently.
func (m *mockFetcher) FetchCommits(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error) {
	args := m.Called(ctx, repo.FullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

// commitsBy builds n commits authored by the given login.
func commitsBy(login string, n int, authoredAt time.Time) []domain.Commit {
	commits := make([]domain.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, domain.Commit{Login: login, AuthoredAt: authoredAt})
	}
	return commits
}

func newTestCollector(fetcher gateway.Fetcher) *Collector {
	return NewCollector(fetcher, track.Classifier{}, zap.NewNop().Sugar())
}

func TestCollector_Collect(t *testing.T) {
	pushedAt := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	lastAt := time.Date(2025, 8, 20, 9, 30, 0, 0, time.UTC)
	earlierAt := lastAt.Add(-48 * time.Hour)

	t.Run("aggregates contributors per repository", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repo := domain.Repository{Name: "defi-payments", FullName: "acme/defi-payments", Topics: []string{"track-fintech"}}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]domain.Repository{repo}, nil)
		commits := append(commitsBy("alice", 5, lastAt), commitsBy("bob", 3, earlierAt)...)
		fetcher.On("FetchCommits", mock.Anything, "acme/defi-payments").Return(commits, nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		require.Len(t, dataset.Repos, 1)
		summary := dataset.Repos[0]
		assert.Equal(t, 8, summary.Commits)
		assert.Equal(t, []domain.ContributorCount{
			{Login: "alice", Commits: 5},
			{Login: "bob", Commits: 3},
		}, summary.Contributors)
		assert.Equal(t, "fintech", summary.Track)
		require.NotNil(t, summary.LastCommitAt)
		assert.Equal(t, lastAt, *summary.LastCommitAt)
		fetcher.AssertExpectations(t)
	})

	t.Run("empty repository keeps the push timestamp", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repo := domain.Repository{Name: "empty-repo", FullName: "acme/empty-repo", PushedAt: &pushedAt}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]domain.Repository{repo}, nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/empty-repo").Return([]domain.Commit{}, nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		require.Len(t, dataset.Repos, 1)
		summary := dataset.Repos[0]
		assert.Equal(t, 0, summary.Commits)
		assert.Empty(t, summary.Contributors)
		require.NotNil(t, summary.LastCommitAt)
		assert.Equal(t, pushedAt, *summary.LastCommitAt)
		fetcher.AssertExpectations(t)
	})

	t.Run("a failed commit fetch degrades only that repository", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{
			{Name: "repo-a", FullName: "acme/repo-a"},
			{Name: "repo-b", FullName: "acme/repo-b", PushedAt: &pushedAt},
			{Name: "repo-c", FullName: "acme/repo-c"},
		}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return(repos, nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-a").Return(commitsBy("alice", 2, lastAt), nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-b").Return(nil, errors.New("github api error"))
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-c").Return(commitsBy("bob", 1, lastAt), nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		require.Len(t, dataset.Repos, 3)
		assert.Equal(t, 2, dataset.Repos[0].Commits)
		assert.Equal(t, 0, dataset.Repos[1].Commits)
		assert.Empty(t, dataset.Repos[1].Contributors)
		assert.Equal(t, 1, dataset.Repos[2].Commits)
		assert.Equal(t, []domain.LeaderboardEntry{
			{Key: "repo-a", Commits: 2},
			{Key: "repo-c", Commits: 1},
			{Key: "repo-b", Commits: 0},
		}, dataset.Leaderboards.TopRepos)
		fetcher.AssertExpectations(t)
	})

	t.Run("archived, disabled, and forked repositories are excluded", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{
			{Name: "live", FullName: "acme/live"},
			{Name: "old", FullName: "acme/old", Archived: true},
			{Name: "off", FullName: "acme/off", Disabled: true},
			{Name: "copy", FullName: "acme/copy", Fork: true},
		}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return(repos, nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/live").Return([]domain.Commit{}, nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		require.Len(t, dataset.Repos, 1)
		assert.Equal(t, "live", dataset.Repos[0].Name)
		assert.Equal(t, 4, dataset.ReposTotal)
		fetcher.AssertExpectations(t)
	})

	t.Run("unattributed commits are grouped under unknown", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repo := domain.Repository{Name: "repo-a", FullName: "acme/repo-a"}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]domain.Repository{repo}, nil)
		commits := []domain.Commit{
			{AuthorName: "Alice W", AuthoredAt: lastAt},
			{AuthoredAt: earlierAt},
			{AuthoredAt: earlierAt},
		}
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-a").Return(commits, nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		require.Len(t, dataset.Repos, 1)
		assert.Equal(t, []domain.ContributorCount{
			{Login: "unknown", Commits: 2},
			{Login: "Alice W", Commits: 1},
		}, dataset.Repos[0].Contributors)
		fetcher.AssertExpectations(t)
	})

	t.Run("a failed listing aborts the whole run", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return(nil, errors.New("github api error"))

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		assert.Nil(t, dataset)
		assert.ErrorIs(t, err, gateway.ErrSourceUnavailable)
		fetcher.AssertExpectations(t)
	})

	t.Run("commit counts always equal the contributor sum", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{
			{Name: "repo-a", FullName: "acme/repo-a"},
			{Name: "repo-b", FullName: "acme/repo-b"},
		}
		fetcher.On("ListRepositories", mock.Anything, "acme").Return(repos, nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-a").
			Return(append(commitsBy("alice", 4, lastAt), commitsBy("bob", 2, earlierAt)...), nil)
		fetcher.On("FetchCommits", mock.Anything, "acme/repo-b").Return(commitsBy("alice", 3, lastAt), nil)

		dataset, err := newTestCollector(fetcher).Collect(context.Background(), "acme", 30)

		require.NoError(t, err)
		for _, summary := range dataset.Repos {
			total := 0
			for _, contributor := range summary.Contributors {
				total += contributor.Commits
			}
			assert.Equal(t, summary.Commits, total)
		}
		assert.Equal(t, []domain.LeaderboardEntry{
			{Key: "alice", Commits: 7},
			{Key: "bob", Commits: 2},
		}, dataset.Leaderboards.TopContributors)
		fetcher.AssertExpectations(t)
	})
}
