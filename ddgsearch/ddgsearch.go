// Package ddgsearch is the default metasearch backend: a thin client for
// the DuckDuckGo HTML endpoint, which itself merges several upstream
// engines. The exact inter-engine merge policy is the service's business;
// this client only deduplicates and caps the returned URLs.
package ddgsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/flexigpt/agentgate-go/spec"
)

const (
	DefaultEndpoint   = "https://html.duckduckgo.com/html/"
	DefaultRegion     = "us-en"
	DefaultMaxResults = 10

	// SafeSearchModerate is the endpoint's moderate filtering level.
	SafeSearchModerate = "-1"

	maxBodyBytes = 4 << 20 // 4 MiB
)

// Result anchors carry the target URL in the "uddg" redirect parameter.
var resultHrefRe = regexp.MustCompile(`class="result__a"[^>]*\shref="([^"]+)"`)

type Client struct {
	hc *http.Client

	endpoint   string
	region     string
	safeSearch string
	maxResults int
	userAgent  string
}

type Option func(*Client) error

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		c.hc = hc
		return nil
	}
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) error {
		e := strings.TrimSpace(endpoint)
		if e == "" {
			return errors.New("empty endpoint")
		}
		c.endpoint = e
		return nil
	}
}

func WithRegion(region string) Option {
	return func(c *Client) error {
		c.region = region
		return nil
	}
}

func WithMaxResults(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("max results must be positive, got %d", n)
		}
		c.maxResults = n
		return nil
	}
}

func New(opts ...Option) (*Client, error) {
	c := &Client{
		hc:         &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		region:     DefaultRegion,
		safeSearch: SafeSearchModerate,
		maxResults: DefaultMaxResults,
		userAgent:  "Mozilla/5.0 (X11; Linux x86_64) agentgate-go",
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Search returns up to maxResults deduplicated result URLs. Any transport
// or decode failure wraps spec.ErrSearchUnavailable: the planner has no
// retry policy, a failed plan aborts the whole research call.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", spec.ErrInvalidArgument)
	}

	form := url.Values{}
	form.Set("q", q)
	form.Set("kl", c.region)
	form.Set("kp", c.safeSearch)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, errors.Join(spec.ErrSearchUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Join(spec.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search endpoint returned %s", spec.ErrSearchUnavailable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Join(spec.ErrSearchUnavailable, err)
	}

	return c.extractURLs(string(body)), nil
}

func (c *Client) extractURLs(page string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range resultHrefRe.FindAllStringSubmatch(page, -1) {
		target := decodeResultHref(m[1])
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
		if len(out) >= c.maxResults {
			break
		}
	}
	return out
}

// decodeResultHref unwraps the redirect href into the target URL. Plain
// absolute hrefs pass through untouched.
func decodeResultHref(href string) string {
	h := href
	if strings.HasPrefix(h, "//") {
		h = "https:" + h
	}
	u, err := url.Parse(h)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if tu, err := url.Parse(target); err == nil && tu.IsAbs() {
			return target
		}
		return ""
	}
	if u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https") {
		return h
	}
	return ""
}
