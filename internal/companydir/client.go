// Package companydir looks companies up in the public Simplify directory. Every
// failure degrades to an empty result; callers never see an error.
package companydir

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"job-tracker/internal/metrics"
	"job-tracker/internal/models"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.simplify.jobs/v2/company/"
	DefaultTimeout = 5 * time.Second

	// MinQueryLength is the shortest query Suggest sends upstream.
	MinQueryLength = 2
	// MaxSuggestions caps the autocomplete list.
	MaxSuggestions = 10

	maxBodyBytes = 2 << 20
)

// Cache stores raw directory responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

type Option func(*Client)

// WithCache caches successful responses for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default client, whose timeout is DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns one page of companies matching query.
func (c *Client) Search(ctx context.Context, query string, page int) []models.DirectoryCompany {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.DirectoryCompany{}
	}

	key := cacheKey(query, page)
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			metrics.RecordDirectoryLookup("cached")
			return parseCompanies(body)
		}
	}

	body, err := c.fetch(ctx, query, page)
	if err != nil {
		log.WithFields(log.Fields{"query": query, "page": page}).Errorf("Company directory request failed: %v", err)
		metrics.RecordDirectoryLookup("error")
		return []models.DirectoryCompany{}
	}

	companies := parseCompanies(body)
	if len(companies) > 0 {
		metrics.RecordDirectoryLookup("hit")
	} else {
		metrics.RecordDirectoryLookup("miss")
	}
	if c.cache != nil && gjson.ValidBytes(body) {
		c.cache.Set(ctx, key, body, c.cacheTTL)
	}
	log.WithFields(log.Fields{"query": query, "count": len(companies)}).Debug("Company directory search")
	return companies
}

// Suggest backs the autocomplete box: short queries return nothing and
// results are capped at MaxSuggestions.
func (c *Client) Suggest(ctx context.Context, query string) []models.DirectoryCompany {
	if len([]rune(strings.TrimSpace(query))) < MinQueryLength {
		return []models.DirectoryCompany{}
	}
	companies := c.Search(ctx, query, 0)
	if len(companies) > MaxSuggestions {
		companies = companies[:MaxSuggestions]
	}
	return companies
}

// Lookup returns the directory's best match for name.
func (c *Client) Lookup(ctx context.Context, name string) (models.DirectoryCompany, bool) {
	companies := c.Search(ctx, name, 0)
	if len(companies) == 0 {
		return models.DirectoryCompany{}, false
	}
	return companies[0], true
}

func (c *Client) fetch(ctx context.Context, query string, page int) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("value", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// parseCompanies accepts {"items": [...]}, {"data": [...]} or a bare array.
func parseCompanies(body []byte) []models.DirectoryCompany {
	out := []models.DirectoryCompany{}
	if !gjson.ValidBytes(body) {
		return out
	}

	root := gjson.ParseBytes(body)
	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("items").IsArray():
		list = root.Get("items")
	case root.Get("data").IsArray():
		list = root.Get("data")
	default:
		return out
	}

	list.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		out = append(out, models.DirectoryCompany{
			Name:     v.Get("name").String(),
			Logo:     v.Get("logo").String(),
			Industry: v.Get("industry").String(),
			Location: v.Get("location").String(),
		})
		return true
	})
	return out
}

func cacheKey(query string, page int) string {
	return "companydir:" + strconv.Itoa(page) + ":" + strings.ToLower(query)
}
