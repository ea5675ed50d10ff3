package sportsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/internal/model"
)

// StatsFetcher is the sports statistics capability the odds engine's edge
// depends on.
type StatsFetcher interface {
	FetchTeamStats(ctx context.Context, team string) (model.TeamStats, error)
	Name() string
}

// RESTFetcher pulls team averages from a stats API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewRESTFetcher(baseURL, apiKey string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *RESTFetcher) Name() string { return "stats-api" }

func (f *RESTFetcher) FetchTeamStats(ctx context.Context, team string) (model.TeamStats, error) {
	endpoint := fmt.Sprintf("%s/api/v1/teams/stats?team=%s", f.BaseURL, url.QueryEscape(team))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.TeamStats{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.TeamStats{}, fmt.Errorf("fetch team stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.TeamStats{}, fmt.Errorf("fetch team stats: status %d, body: %s", resp.StatusCode, string(body))
	}

	var stats model.TeamStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return model.TeamStats{}, fmt.Errorf("decode team stats: %w", err)
	}
	if stats.Team == "" {
		stats.Team = team
	}
	return stats, nil
}

// MockFetcher serves fixed stats for development and testing.
type MockFetcher struct {
	Stats map[string]model.TeamStats
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchTeamStats(_ context.Context, team string) (model.TeamStats, error) {
	if m.Err != nil {
		return model.TeamStats{}, m.Err
	}
	if s, ok := m.Stats[team]; ok {
		return s, nil
	}
	return model.TeamStats{}, fmt.Errorf("no stats for team %q", team)
}
