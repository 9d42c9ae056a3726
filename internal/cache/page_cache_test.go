package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*PageCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	pages := New(client, time.Minute)

	t.Cleanup(func() {
		pages.Close()
		mr.Close()
	})
	return pages, mr
}

func TestGetSetRevalidate(t *testing.T) {
	pages, mr := setupTestCache(t)
	ctx := context.Background()

	_, hit, err := pages.Get(ctx, "/churches")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, pages.Set(ctx, "/churches", []byte("<h1>Directory</h1>")))
	assert.True(t, mr.Exists("lumina:page:/churches"))

	body, hit, err := pages.Get(ctx, "/churches")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<h1>Directory</h1>", string(body))

	require.NoError(t, pages.Revalidate(ctx, "/churches", "/churches/st-anne"))
	_, hit, err = pages.Get(ctx, "/churches")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSetHonoursTTL(t *testing.T) {
	pages, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, pages.Set(ctx, "/", []byte("home")))
	mr.FastForward(2 * time.Minute)

	_, hit, err := pages.Get(ctx, "/")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMiddlewareCachesPublicPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pages, _ := setupTestCache(t)

	renders := 0
	router := gin.New()
	router.Use(pages.Middleware(func(path string) bool { return strings.HasPrefix(path, "/churches") }))
	router.GET("/churches", func(c *gin.Context) {
		renders++
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("directory"))
	})
	router.GET("/contact", func(c *gin.Context) {
		renders++
		c.String(http.StatusOK, "contact")
	})

	serve := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	first := serve("/churches")
	assert.Equal(t, "MISS", first.Header().Get(HeaderStatus))
	second := serve("/churches")
	assert.Equal(t, "HIT", second.Header().Get(HeaderStatus))
	assert.Equal(t, "directory", second.Body.String())
	assert.Equal(t, 1, renders)

	serve("/churches?ref=home")
	assert.Equal(t, 2, renders, "query strings bypass the cache")

	serve("/contact")
	serve("/contact")
	assert.Equal(t, 4, renders, "non cacheable paths always render")

	require.NoError(t, pages.Revalidate(context.Background(), "/churches"))
	serve("/churches")
	assert.Equal(t, 5, renders)
}

func TestMiddlewareSkipsErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pages, _ := setupTestCache(t)

	router := gin.New()
	router.Use(pages.Middleware(func(string) bool { return true }))
	router.GET("/churches/:slug", func(c *gin.Context) {
		c.String(http.StatusNotFound, "missing")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/churches/gone", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, hit, err := pages.Get(context.Background(), "/churches/gone")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMiddlewareHonoursSkipStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pages, _ := setupTestCache(t)

	degraded := true
	router := gin.New()
	router.Use(pages.Middleware(func(string) bool { return true }))
	router.GET("/churches", func(c *gin.Context) {
		if degraded {
			SkipStore(c)
			c.String(http.StatusOK, "empty directory")
			return
		}
		c.String(http.StatusOK, "St. Anne")
	})

	serve := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/churches", nil))
		return w
	}

	assert.Equal(t, "MISS", serve().Header().Get(HeaderStatus))
	_, hit, err := pages.Get(context.Background(), "/churches")
	require.NoError(t, err)
	assert.False(t, hit, "degraded render must not be stored")

	degraded = false
	recovered := serve()
	assert.Equal(t, "MISS", recovered.Header().Get(HeaderStatus))
	assert.Equal(t, "St. Anne", recovered.Body.String())

	cached := serve()
	assert.Equal(t, "HIT", cached.Header().Get(HeaderStatus))
	assert.Equal(t, "St. Anne", cached.Body.String())
}

func TestMiddlewareDropsRenderOverlappingRevalidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pages, _ := setupTestCache(t)

	router := gin.New()
	router.Use(pages.Middleware(func(string) bool { return true }))
	router.GET("/feedbacks", func(c *gin.Context) {
		// A write commits and revalidates while this render holds old rows.
		require.NoError(t, pages.Revalidate(c.Request.Context(), "/feedbacks"))
		c.String(http.StatusOK, "old feedback")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feedbacks", nil))
	assert.Equal(t, "old feedback", w.Body.String())

	_, hit, err := pages.Get(context.Background(), "/feedbacks")
	require.NoError(t, err)
	assert.False(t, hit, "render that overlapped a revalidate must not be stored")
}

func TestSetIfCurrent(t *testing.T) {
	pages, _ := setupTestCache(t)
	ctx := context.Background()

	gen, err := pages.generation(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	stored, err := pages.setIfCurrent(ctx, "/", gen, []byte("home v1"))
	require.NoError(t, err)
	assert.True(t, stored)

	require.NoError(t, pages.Revalidate(ctx, "/"))
	stored, err = pages.setIfCurrent(ctx, "/", gen, []byte("home v1"))
	require.NoError(t, err)
	assert.False(t, stored)

	gen, err = pages.generation(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	stored, err = pages.setIfCurrent(ctx, "/", gen, []byte("home v2"))
	require.NoError(t, err)
	assert.True(t, stored)

	body, hit, err := pages.Get(ctx, "/")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "home v2", string(body))
}
