package records

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/profile-matcher"
	contentEncoding = "gzip"
	// maxPages bounds pagination against servers that never report the last page.
	maxPages = 1000
)

// page is the envelope of a paginated dataset response.
type page struct {
	Items json.RawMessage `json:"items"`
	Page  int             `json:"page"`
	Pages int             `json:"pages"`
}

// Fetcher downloads datasets served as JSON over HTTP. A response is either a
// plain array of objects or an {"items", "page", "pages"} envelope, in which
// case every page is requested.
type Fetcher struct {
	logger     *zap.Logger
	token      string
	HTTPClient *http.Client
	UserAgent  string
}

// NewFetcher creates a fetcher. A non-empty token is sent as a bearer token.
func NewFetcher(logger *zap.Logger, token string) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		logger: logger,
		token:  token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// IsRemote reports whether location is an http(s) URL rather than a file path.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the records served at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse dataset url: %w", err)
	}

	var rs []Record
	for n := 0; n < maxPages; n++ {
		data, err := f.get(ctx, u)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			return ReadJSON(bytes.NewReader(trimmed))
		}

		var p page
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("decode dataset page: %w", err)
		}
		if len(p.Items) > 0 {
			items, err := ReadJSON(bytes.NewReader(p.Items))
			if err != nil {
				return nil, fmt.Errorf("decode dataset page %d: %w", p.Page, err)
			}
			rs = append(rs, items...)
		}

		if p.Page >= p.Pages-1 {
			return rs, nil
		}

		f.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", p.Page+1, p.Pages),
		))
		u = withPage(u, p.Page+1)
	}

	return nil, fmt.Errorf("dataset at %s has more than %d pages", rawURL, maxPages)
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", f.token))
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)

	f.logger.Debug("make request", zap.String("url", u.String()))
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}

// withPage returns a copy of u with the page query parameter set.
func withPage(u *url.URL, n int) *url.URL {
	next := *u
	q := next.Query()
	q.Set("page", strconv.Itoa(n))
	next.RawQuery = q.Encode()
	return &next
}
