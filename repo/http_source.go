package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StreamerPoll/model"
)

// HTTPSource fetches the poll config from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates a source with a bounded request timeout.
func NewHTTPSource(rawURL string) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Name() string { return "url:" + s.URL }

func (s *HTTPSource) Load(ctx context.Context) (model.PollConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return model.PollConfig{}, fmt.Errorf("error building config request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.PollConfig{}, fmt.Errorf("error fetching poll config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.PollConfig{}, fmt.Errorf("error fetching poll config: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PollConfig{}, fmt.Errorf("error reading response body: %w", err)
	}

	return DecodePollConfig(body, s.format(resp.Header.Get("Content-Type")))
}

func (s *HTTPSource) format(contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return FormatYAML
	}
	if u, err := url.Parse(s.URL); err == nil {
		return formatFor(u.Path)
	}
	return FormatJSON
}
