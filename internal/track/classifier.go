// Package track classifies repositories into track labels for grouping
// and filtering on the dashboard.
package track

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
)

// TopicPrefix marks a repository topic as an explicit track tag,
// e.g. "track-fintech".
const TopicPrefix = "track-"

// DefaultTrack is assigned when no classification rule matches.
const DefaultTrack = "other"

// keywordGroup maps name/description keywords to a track. Group order is
// significant: the first group with any matching keyword wins.
type keywordGroup struct {
	track    string
	keywords []string
}

var keywordGroups = []keywordGroup{
	{"frontend", []string{"frontend", "front-end", "webapp", "website", "dapp", "ui"}},
	{"backend", []string{"backend", "back-end", "api", "server", "service"}},
	{"blockchain", []string{"chain", "ledger", "contract", "solidity", "defi", "wallet", "token"}},
	{"data", []string{"data", "analytics", "etl", "metrics"}},
}

// Classifier assigns a track label to a repository. The zero value
// classifies by topics and keyword heuristics only.
type Classifier struct {
	// Overrides maps lowercased repository names to track labels. It is
	// consulted after explicit track topics and before keyword heuristics.
	Overrides map[string]string
}

// Classify returns the track for a repository. Explicit track topics win
// over everything; among topics the first match in topic order wins. The
// result is always non-empty, falling back to DefaultTrack.
func (c Classifier) Classify(repo domain.Repository) string {
	for _, topic := range repo.Topics {
		if rest := strings.TrimPrefix(topic, TopicPrefix); rest != topic && rest != "" {
			return rest
		}
	}
	if t, ok := c.Overrides[strings.ToLower(repo.Name)]; ok && t != "" {
		return t
	}
	haystack := strings.ToLower(repo.Name + " " + repo.Description)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(haystack, kw) {
				return group.track
			}
		}
	}
	return DefaultTrack
}

// LoadOverrides reads a track map file of the form
//
//	fintech:
//	  - defi-payments
//	  - mobile-wallet
//
// and inverts it into a map keyed by lowercased repository name.
func LoadOverrides(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track map: %w", err)
	}
	var byTrack map[string][]string
	if err := yaml.Unmarshal(raw, &byTrack); err != nil {
		return nil, fmt.Errorf("failed to parse track map: %w", err)
	}
	overrides := make(map[string]string)
	for t, repos := range byTrack {
		for _, name := range repos {
			overrides[strings.ToLower(name)] = t
		}
	}
	return overrides, nil
}
