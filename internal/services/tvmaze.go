package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/search"
	"github.com/desertthunder/tvx/internal/shared"
)

const (
	defaultTVMazeBaseURL = search.DefaultBaseURL
	defaultUserAgent     = "tvx/0.1"
	defaultRatePerSecond = 2.0
	defaultBurst         = 5
)

// TVMazeService implements [CatalogueService] for the TVmaze REST API.
type TVMazeService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// TVMazeOpts configures a [TVMazeService]. Zero values fall back to defaults.
type TVMazeOpts struct {
	BaseURL       string
	UserAgent     string
	RatePerSecond float64
	Burst         int
	Client        *http.Client
}

// NewTVMazeService creates a TVmaze client.
func NewTVMazeService(opts TVMazeOpts) *TVMazeService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultTVMazeBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRatePerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	return &TVMazeService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.Client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
	}
}

// NewTVMazeServiceFromConfig builds a client from the [api] config section.
func NewTVMazeServiceFromConfig(cfg shared.APIConfig) *TVMazeService {
	return NewTVMazeService(TVMazeOpts{
		BaseURL:       cfg.BaseURL,
		UserAgent:     cfg.UserAgent,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
		Client:        &http.Client{Timeout: cfg.Timeout()},
	})
}

func (s *TVMazeService) Name() string { return "TVmaze" }

// BaseURL returns the API root without a trailing slash.
func (s *TVMazeService) BaseURL() string { return s.baseURL }

func (s *TVMazeService) SearchURL(query string) string {
	return search.BuildURL(s.baseURL, query)
}

// ListShows calls GET /shows?page=N.
func (s *TVMazeService) ListShows(ctx context.Context, page int) ([]models.Show, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: page must be >= 0, got %d", shared.ErrInvalidArgument, page)
	}

	var shows []models.Show
	if err := s.doRequest(ctx, s.baseURL+"/shows?page="+strconv.Itoa(page), &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// GetShowDetails calls GET /shows/{id}?embed=cast.
func (s *TVMazeService) GetShowDetails(ctx context.Context, id int) (*models.ShowDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid show id %d", shared.ErrInvalidArgument, id)
	}

	var details models.ShowDetails
	if err := s.doRequest(ctx, fmt.Sprintf("%s/shows/%d?embed=cast", s.baseURL, id), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Lookup fetches a search URL. It satisfies [search.Lookup].
//
// A well-formed JSON body that is not an array counts as no matches.
func (s *TVMazeService) Lookup(ctx context.Context, rawURL string) ([]models.SearchResultItem, error) {
	var raw json.RawMessage
	if err := s.doRequest(ctx, rawURL, &raw); err != nil {
		return nil, err
	}

	items := []models.SearchResultItem{}
	if body := bytes.TrimSpace(raw); len(body) == 0 || body[0] != '[' {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return items, nil
}

// Search runs a one-off search for query.
func (s *TVMazeService) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	return s.Lookup(ctx, s.SearchURL(query))
}

func (s *TVMazeService) doRequest(ctx context.Context, rawURL string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrShowNotFound, req.URL.Path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited by TVmaze (status 429)", shared.ErrServiceUnavailable)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%w: tvmaze API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: tvmaze API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
