package remote

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultAPIBase is the GitHub REST API root.
	DefaultAPIBase = "https://api.github.com"
	// DefaultArchiveBase serves /{owner}/{repo}/archive/refs/tags/{tag}.tar.gz.
	DefaultArchiveBase = "https://github.com"

	maxRedirects = 10
	userAgent    = "create-takt-sdd"
)

// Release is the subset of a GitHub release the installer reads.
type Release struct {
	TagName   string    `json:"tag_name"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Client talks to GitHub on behalf of the installer.
type Client struct {
	httpClient  *http.Client
	apiBase     string
	archiveBase string
	token       string
	logger      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIBase points release lookups at another GitHub API root.
func WithAPIBase(base string) Option {
	return func(cl *Client) {
		if base != "" {
			cl.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithArchiveBase downloads archives from a mirror instead of github.com.
func WithArchiveBase(base string) Option {
	return func(cl *Client) {
		if base != "" {
			cl.archiveBase = strings.TrimRight(base, "/")
		}
	}
}

// WithToken authenticates API requests for higher rate limits.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		apiBase:     DefaultAPIBase,
		archiveBase: DefaultArchiveBase,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:       5 * time.Minute,
			CheckRedirect: limitRedirects(maxRedirects),
		}
	}
	return c
}

// ArchiveURL returns the source archive URL for repo at tag.
func (c *Client) ArchiveURL(repo, tag string) string {
	return fmt.Sprintf("%s/%s/archive/refs/tags/%s.tar.gz", c.archiveBase, repo, tag)
}

func limitRedirects(n int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= n {
			return fmt.Errorf("stopped after %d redirects", n)
		}
		return nil
	}
}
