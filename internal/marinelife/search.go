package marinelife

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/shared/config"
)

const (
	searchDepth      = "advanced"
	searchMaxResults = 3
)

// SearchClient handles interactions with the Tavily search API.
type SearchClient struct {
	config *config.SearchConfig
	client *http.Client
}

func NewSearchClient(cfg *config.SearchConfig) *SearchClient {
	return &SearchClient{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs one query and returns the content of the results joined by
// newlines, in the order returned. Zero results yield an empty string.
func (s *SearchClient) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: searchDepth,
		MaxResults:  searchMaxResults,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.TavilyAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to run search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	contents := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		contents = append(contents, r.Content)
	}
	return strings.Join(contents, "\n"), nil
}
