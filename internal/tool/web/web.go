package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

// ErrNotConfigured is returned when the search API key or engine id is
// missing.
var ErrNotConfigured = errors.New("search API key or engine id not set")

const (
	incompleteNotice = "This answer is possibly incomplete. Consider refining search terms if needed.\n\n"
	fetchFailedText  = "Could not fetch page content"

	// maxPageSize caps how much of a page is downloaded.
	maxPageSize = 2 << 20
	// maxBatch is the largest page size the search API accepts.
	maxBatch = 10
)

// Hit is one search result.
type Hit struct {
	Title string
	Link  string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Searcher queries a Custom Search endpoint and scrapes the result pages.
type Searcher struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	engineID  string
	results   int
	textLimit int
}

// New returns a Searcher. A nil client gets one with the configured
// timeout.
func New(cfg config.SearchConfig, apiKey, engineID string, client *http.Client) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	return &Searcher{
		client:    client,
		endpoint:  cfg.Endpoint,
		apiKey:    apiKey,
		engineID:  engineID,
		results:   cfg.Results,
		textLimit: cfg.PageTextLimit,
	}
}

type searchRequest struct {
	Query string `mapstructure:"query"`
}

func (r searchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query must not be empty")
	}
	return nil
}

// Tool returns the search_and_scrape tool.
func (s *Searcher) Tool() tool.Tool {
	return tool.New(tool.Declaration{
		Name:        "search_and_scrape",
		Description: "Searches the web for a query and returns the top results, each with its title and the beginning of the page text.",
		Parameters:  tool.Object(map[string]string{"query": "The search query to use."}, "query"),
	}, func(ctx context.Context, req searchRequest) (string, error) {
		return s.SearchAndScrape(ctx, req.Query)
	})
}

// SearchAndScrape searches and renders each hit with its page text. A page
// that cannot be fetched does not fail the whole search.
func (s *Searcher) SearchAndScrape(ctx context.Context, query string) (string, error) {
	hits, err := s.Search(ctx, query, s.results)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(incompleteNotice)
	for _, h := range hits {
		text, err := s.FetchText(ctx, h.Link)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			text = fetchFailedText
		}
		fmt.Fprintf(&b, "Title: %s\nContent: %s\n\n", h.Title, text)
	}
	return b.String(), nil
}

type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
	Queries struct {
		NextPage []json.RawMessage `json:"nextPage"`
	} `json:"queries"`
}

// Search returns up to n hits, following result pages as needed.
func (s *Searcher) Search(ctx context.Context, query string, n int) ([]Hit, error) {
	if s.apiKey == "" || s.engineID == "" {
		return nil, ErrNotConfigured
	}

	var hits []Hit
	start := 1
	for len(hits) < n {
		batch := min(maxBatch, n-len(hits))
		params := url.Values{
			"key":   {s.apiKey},
			"cx":    {s.engineID},
			"q":     {query},
			"num":   {strconv.Itoa(batch)},
			"start": {strconv.Itoa(start)},
		}

		var resp searchResponse
		if err := s.getJSON(ctx, s.endpoint+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		for _, item := range resp.Items {
			hits = append(hits, Hit{Title: item.Title, Link: item.Link})
			if len(hits) == n {
				break
			}
		}

		start += batch
		if len(resp.Queries.NextPage) == 0 || len(resp.Items) == 0 {
			break
		}
	}
	return hits, nil
}

// FetchText downloads a page and returns its visible text, truncated to
// the configured limit.
func (s *Searcher) FetchText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: link, Code: resp.StatusCode}
	}

	text, err := ExtractText(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", err
	}
	return truncateRunes(text, s.textLimit), nil
}

func (s *Searcher) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: s.endpoint, Code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
