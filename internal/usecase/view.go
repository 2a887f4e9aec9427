package usecase

import (
	"sort"
	"strings"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
)

// AllTracks disables track filtering in Criteria.
const AllTracks = "All"

// Criteria is the set of user-selected filters applied to a dataset view.
type Criteria struct {
	Track          string
	MinCommits     int
	Search         string
	IncludePrivate bool
}

// ApplyFilters returns the repositories of a dataset matching the
// criteria, ordered by commit count descending. Rows with equal counts
// keep their relative dataset order. The function is pure: the dataset is
// never modified and identical criteria always yield the same rows.
func ApplyFilters(ds *domain.Dataset, criteria Criteria) []domain.RepositorySummary {
	rows := make([]domain.RepositorySummary, 0, len(ds.Repos))
	for _, repo := range ds.Repos {
		if matches(repo, criteria) {
			rows = append(rows, repo)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Commits > rows[j].Commits
	})
	return rows
}

func matches(repo domain.RepositorySummary, c Criteria) bool {
	if c.Track != "" && c.Track != AllTracks && repo.Track != c.Track {
		return false
	}
	if repo.Commits < c.MinCommits {
		return false
	}
	if repo.Private && !c.IncludePrivate {
		return false
	}
	if c.Search == "" {
		return true
	}
	needle := strings.ToLower(c.Search)
	if strings.Contains(strings.ToLower(repo.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(repo.Track), needle) {
		return true
	}
	for _, contributor := range repo.Contributors {
		if strings.Contains(strings.ToLower(contributor.Login), needle) {
			return true
		}
	}
	return false
}
