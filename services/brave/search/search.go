package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"voicekit/core"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Config holds Brave Search API settings.
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`

	// Timeout bounds one search call. Search is latency-sensitive: a slow
	// answer is barely better than none.
	Timeout time.Duration `json:"-"`
}

// DefaultConfig returns a Config pointing at the public Brave endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		Timeout: 10 * time.Second,
	}
}

// BraveSearchService wraps the Brave web-search REST API.
type BraveSearchService struct {
	config     Config
	httpClient *http.Client
	logger     *core.Logger
}

func NewBraveSearchService(config Config, logger *core.Logger) *BraveSearchService {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	return &BraveSearchService{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// Configured reports whether an API key is present.
func (s *BraveSearchService) Configured() bool {
	return s.config.APIKey != ""
}

type braveResponse struct {
	Web braveWeb `json:"web"`
}

type braveWeb struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Search issues one web search and flattens at most maxResults hits, in
// provider order, into a summary for prompt injection plus the structured
// list for the UI. Every failure degrades to an empty outcome.
func (s *BraveSearchService) Search(ctx context.Context, query string, maxResults int) core.SearchOutcome {
	if !s.Configured() {
		return degraded("search api key not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL, nil)
	if err != nil {
		return degraded(fmt.Sprintf("build request: %v", err))
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return degraded(fmt.Sprintf("search request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return degraded(fmt.Sprintf("search: status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return degraded(fmt.Sprintf("read response: %v", err))
	}
	var parsed braveResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return degraded(fmt.Sprintf("decode response: %v", err))
	}

	results := parsed.Web.Results
	if maxResults >= 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	lines := make([]string, 0, len(results))
	structured := make([]core.SearchResult, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Description))
		structured = append(structured, core.SearchResult{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
		})
	}
	return core.SearchOutcome{Summary: strings.Join(lines, "\n"), Results: structured}
}

func degraded(reason string) core.SearchOutcome {
	return core.SearchOutcome{Degraded: true, Reason: reason}
}
