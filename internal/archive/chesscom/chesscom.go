// Package chesscom reads monthly game archives from the chess.com public API.
package chesscom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/period"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.chess.com/pub"

// DefaultUserAgent mimics a desktop browser; the API rejects some bare
// client agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single month request.
const DefaultTimeout = 30 * time.Second

// maxBody caps a month document. Heavy players stay well below this.
const maxBody = 64 << 20

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store fetches archives over HTTP.
type Store struct {
	client    *http.Client
	timeout   time.Duration // applied to a copy of client when non-zero
	baseURL   string
	userAgent string
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client. A nil client keeps the default.
// The client is never modified; WithTimeout applies to a copy.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithTimeout sets the overall timeout of each request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

// WithBaseURL points the store at another API root, such as a test server.
func WithBaseURL(url string) Option {
	return func(s *Store) {
		s.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Store) {
		s.userAgent = ua
	}
}

// New creates a store with sensible defaults.
func New(opts ...Option) *Store {
	s := &Store{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = defaultClient()
	}
	if s.timeout > 0 {
		c := *s.client
		c.Timeout = s.timeout
		s.client = &c
	}
	return s
}

func defaultClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConnsPerHost:   8,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: DefaultTimeout,
		},
	}
}

// URL returns the archive URL of a player's month.
func (s *Store) URL(username string, p period.Period) string {
	return fmt.Sprintf("%s/player/%s/games/%s", s.baseURL, strings.ToLower(username), p.Path())
}

// ReadMonth downloads a player's month. A 404 maps to archive.ErrNotFound;
// any other non-200 status is an error.
func (s *Store) ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(username, p), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", p, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, archive.ErrNotFound
	default:
		return nil, fmt.Errorf("fetching %s: unexpected status: %s", p, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
