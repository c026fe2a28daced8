// Package feed loads the curated resource list, either from a local JSON
// file or over a one-shot HTTP fetch. No caching, no retry.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"studybuddy/internal/state"
)

const httpTimeout = 10 * time.Second

// Load reads the resource feed from source. A source starting with http://
// or https:// is fetched over HTTP; anything else is treated as a file path.
func Load(ctx context.Context, source string) ([]state.Resource, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadHTTP(ctx, source)
	}
	return loadFile(source)
}

func loadFile(path string) ([]state.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}
	return decode(data)
}

func loadHTTP(ctx context.Context, rawURL string) ([]state.Resource, error) {
	client := &http.Client{Timeout: httpTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build resources request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch resources: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch resources: unexpected status %s", resp.Status)
	}

	var resources []state.Resource
	if err := json.NewDecoder(resp.Body).Decode(&resources); err != nil {
		return nil, fmt.Errorf("parse resources: %w", err)
	}
	return resources, nil
}

func decode(data []byte) ([]state.Resource, error) {
	var resources []state.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("parse resources: %w", err)
	}
	return resources, nil
}
