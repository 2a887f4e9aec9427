package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/avalanche-team1-africa/org-pulse/internal/domain"
)

// SnapshotSource loads a previously materialized dataset document from a
// local file or an http(s) URL, without contacting the live API.
type SnapshotSource struct {
	location string
	client   *http.Client
}

// NewSnapshotSource creates a snapshot source for the given location. A
// location starting with http:// or https:// is fetched over HTTP; anything
// else is treated as a file path.
func NewSnapshotSource(location string) *SnapshotSource {
	return &SnapshotSource{
		location: location,
		client:   http.DefaultClient,
	}
}

// Fetch reads and validates the snapshot document. Any failure — missing,
// unreachable, not valid JSON, or missing required top-level fields — wraps
// ErrSourceUnavailable; no partial dataset is ever returned.
func (s *SnapshotSource) Fetch(ctx context.Context) (*domain.Dataset, error) {
	raw, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: snapshot is not valid JSON: %w", ErrSourceUnavailable, err)
	}
	if err := validateSnapshot(&ds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return &ds, nil
}

func (s *SnapshotSource) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build snapshot request: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("snapshot fetch returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	raw, err := os.ReadFile(s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return raw, nil
}

func validateSnapshot(ds *domain.Dataset) error {
	switch {
	case ds.Org == "":
		return errors.New("snapshot is missing the org field")
	case ds.WindowDays <= 0:
		return errors.New("snapshot has no positive window_days field")
	case ds.Repos == nil:
		return errors.New("snapshot is missing the repos field")
	}
	return nil
}
