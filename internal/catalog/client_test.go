package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront-client/internal/domain"
	memcache "storefront-client/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, opts Options) *Client {
	opts.BaseURL = baseURL
	opts.Backoff = time.Millisecond
	opts.RateLimit = 10000
	opts.RateBurst = 10000
	return NewClient(opts)
}

func TestListProducts_DecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "laptops", r.URL.Query().Get("category"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":[{"id":1,"title":"Laptop","price":999.5,"category":"laptops","brand":"apple","color":"silver","images":[]}],"count":42}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{})
	page, err := c.ListProducts(context.Background(), domain.ListQuery{Category: "laptops", Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(42), page.Count)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Laptop", page.Data[0].Title)
	assert.Equal(t, 999.5, page.Data[0].Price)
}

func TestListProducts_CategoryAllNotSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("category"))
		w.Write([]byte(`{"data":[],"count":0}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{})
	_, err := c.ListProducts(context.Background(), domain.ListQuery{Category: domain.CategoryAll})
	require.NoError(t, err)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{})
	_, err := c.GetProduct(context.Background(), 123)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_CachesByID(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"id":7,"title":"Cached","price":10}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{
		Cache:      memcache.NewMemoryCache(time.Minute, time.Minute),
		ProductTTL: time.Minute,
	})

	first, err := c.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	second, err := c.GetProduct(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup must be served from cache")
}

func TestGet_RetriesOn5xx(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":1,"title":"Recovered","price":5}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{Retries: 3})
	p, err := c.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Recovered", p.Title)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGet_DoesNotRetryOn4xx(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{Retries: 3})
	_, err := c.GetProduct(context.Background(), 1)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "4xx is permanent, no retries")
}

func TestListBrands_Cached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`["apple","dell","hp"]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{
		Cache:   memcache.NewMemoryCache(time.Minute, time.Minute),
		ListTTL: time.Minute,
	})

	brands, err := c.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "dell", "hp"}, brands)

	_, err = c.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestListProducts_TransportFailure(t *testing.T) {
	c := testClient("http://127.0.0.1:1", Options{Retries: 1, Timeout: 200 * time.Millisecond})
	_, err := c.ListProducts(context.Background(), domain.ListQuery{})
	assert.Error(t, err)
}
