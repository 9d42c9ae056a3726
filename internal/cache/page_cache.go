package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "lumina:page:"
	genPrefix = "lumina:gen:"
	skipKey   = "pagecache.skip"
	// HeaderStatus reports whether a response came from the cache.
	HeaderStatus = "X-Page-Cache"
)

// PageCache keeps rendered public pages in Redis until a write revalidates
// them or the TTL elapses.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing Redis client.
func New(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string, ttl time.Duration) (*PageCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return New(client, ttl), nil
}

// Close releases the Redis connection pool.
func (p *PageCache) Close() error {
	return p.client.Close()
}

// Get returns the cached body for path. A miss is not an error.
func (p *PageCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	body, err := p.client.Get(ctx, keyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set stores the rendered body for path.
func (p *PageCache) Set(ctx context.Context, path string, body []byte) error {
	return p.client.Set(ctx, keyPrefix+path, body, p.ttl).Err()
}

// Revalidate drops the cached copies of paths so the next request renders
// fresh content. It also bumps each path's generation so that a render which
// started before the write cannot store its stale body afterwards.
func (p *PageCache) Revalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, path := range paths {
			pipe.Incr(ctx, genPrefix+path)
			pipe.Del(ctx, keyPrefix+path)
		}
		return nil
	})
	return err
}

// generation returns the revalidation counter for path. A missing counter is 0.
func (p *PageCache) generation(ctx context.Context, path string) (int64, error) {
	gen, err := p.client.Get(ctx, genPrefix+path).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// setIfCurrent stores body only while path is still at generation gen. It
// reports whether the body was stored.
func (p *PageCache) setIfCurrent(ctx context.Context, path string, gen int64, body []byte) (bool, error) {
	stored := false
	err := p.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genPrefix+path).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+path, body, p.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genPrefix+path)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// SkipStore marks the current response as unfit for caching, e.g. a page
// rendered empty because the store could not be read.
func SkipStore(c *gin.Context) {
	c.Set(skipKey, true)
}

// Middleware serves GET requests for cacheable paths from Redis and stores
// successful renders on a miss. Requests with a query string bypass the cache,
// and so do renders marked with SkipStore.
func (p *PageCache) Middleware(cacheable func(path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.Request.URL.RawQuery != "" || !cacheable(path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		body, hit, err := p.Get(ctx, path)
		if err != nil {
			log.Printf("page cache: get %s: %v", path, err)
		}
		if hit {
			c.Header(HeaderStatus, "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			c.Abort()
			return
		}

		gen, err := p.generation(ctx, path)
		if err != nil {
			log.Printf("page cache: generation %s: %v", path, err)
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header(HeaderStatus, "MISS")
		c.Next()

		if err != nil || c.GetBool(skipKey) {
			return
		}
		if recorder.Status() != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		if _, err := p.setIfCurrent(ctx, path, gen, recorder.body.Bytes()); err != nil {
			log.Printf("page cache: set %s: %v", path, err)
		}
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Nop satisfies the revalidation contract when no cache is configured.
type Nop struct{}

func (Nop) Revalidate(context.Context, ...string) error {
	return nil
}
