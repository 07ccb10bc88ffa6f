// API service for making raw HTTP requests to the catalogue API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIService provides undecoded GET access to the catalogue API.
type APIService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewAPIService creates a raw API client. An empty baseURL targets TVmaze.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultTVMazeBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: client,
	}
}

// WithUserAgent overrides the User-Agent header sent on each request.
func (a *APIService) WithUserAgent(ua string) *APIService {
	if ua != "" {
		a.userAgent = ua
	}
	return a
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Pretty returns the body indented when it is JSON, or as-is otherwise.
func (r *APIResponse) Pretty() string {
	if !r.IsJSON {
		return string(r.Body)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Body, "", "  "); err != nil {
		return string(r.Body)
	}
	return buf.String()
}

// Get performs a GET request to the specified path and returns the raw response.
// Non-2xx statuses are not treated as errors.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
