package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/pkg/cache"
	"storefront-client/pkg/logger"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Client talks to the remote catalog REST API. The catalog is consumed
// read-only; responses for single products and the brand/category lists are
// cached, and all outbound calls go through a shared rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.CacheService
	retries    int
	backoff    time.Duration
	productTTL time.Duration
	listTTL    time.Duration
}

// Options configures a Client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RateLimit  float64 // requests per second
	RateBurst  int
	Backoff    time.Duration
	Cache      cache.CacheService
	ProductTTL time.Duration
	ListTTL    time.Duration
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 1 {
		opts.Retries = 3
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 20
	}
	if opts.Backoff == 0 {
		opts.Backoff = time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		cache:      opts.Cache,
		retries:    opts.Retries,
		backoff:    opts.Backoff,
		productTTL: opts.ProductTTL,
		listTTL:    opts.ListTTL,
	}
}

// ListProducts fetches one batch of products. Filtering beyond the query
// parameters the API supports is the caller's job.
func (c *Client) ListProducts(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error) {
	v := url.Values{}
	if q.Category != "" && q.Category != domain.CategoryAll {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}

	path := "/products"
	if encoded := v.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page domain.ProductPage
	if err := c.get(ctx, path, &page); err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// GetProduct fetches a single product by id. An id the catalog cannot
// resolve fails with domain.ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	key := fmt.Sprintf("product:id:%d", id)
	if c.cache != nil {
		if val, found := c.cache.Get(key); found {
			return val.(*domain.Product), nil
		}
	}

	var p domain.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	if c.cache != nil {
		c.cache.Set(key, &p, c.productTTL)
	}
	return &p, nil
}

func (c *Client) ListBrands(ctx context.Context) ([]string, error) {
	return c.cachedList(ctx, "catalog:brands", "/brands")
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	return c.cachedList(ctx, "catalog:categories", "/categories")
}

func (c *Client) cachedList(ctx context.Context, key, path string) ([]string, error) {
	if c.cache != nil {
		if val, found := c.cache.Get(key); found {
			return val.([]string), nil
		}
	}

	var list []string
	if err := c.get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	if c.cache != nil {
		c.cache.Set(key, list, c.listTTL)
	}
	return list, nil
}

// get performs a GET with rate limiting and simple retry logic. Transport
// errors and 5xx responses are retried with increasing backoff; 4xx (other
// than 429) are permanent and fail immediately, with 404 mapped to
// domain.ErrProductNotFound.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	fullURL := c.baseURL + path

	var lastErr error
	for i := 0; i < c.retries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("catalog request failed: %w", err)
			if !sleepCtx(ctx, time.Duration(i+1)*c.backoff) {
				return ctx.Err()
			}
			continue
		}

		logger.APIRequest(http.MethodGet, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusOK {
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode catalog response: %w", err)
			}
			return nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrProductNotFound
		}

		lastErr = fmt.Errorf("catalog error (status %d): %s", resp.StatusCode, string(body))

		// Other 4xx (except 429) are permanent errors in the request, don't retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		if !sleepCtx(ctx, time.Duration(i+1)*c.backoff) {
			return ctx.Err()
		}
	}

	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
