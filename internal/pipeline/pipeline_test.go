package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-api/internal/apperr"
	"catalog-api/internal/cache"
	"catalog-api/internal/database"
	"catalog-api/internal/middleware"
	"catalog-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeConns struct {
	err      error
	acquired int
}

func (f *fakeConns) Acquire(ctx context.Context) (*database.Conn, error) {
	f.acquired++
	if f.err != nil {
		return nil, apperr.Connection(f.err)
	}
	return &database.Conn{}, nil
}

type harness struct {
	engine *gin.Engine
	conns  *fakeConns
	cache  *cache.ResponseCache
	reads  int
	value  string
	fail   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &harness{
		conns: &fakeConns{},
		cache: cache.NewResponseCache(cache.NewMemoryStore(), time.Minute, zerolog.Nop()),
		value: "v1",
	}
	p := New(h.conns, h.cache, nil, zerolog.Nop())

	r := gin.New()
	r.Use(middleware.ErrorHandler(false, zerolog.Nop()))
	r.GET("/items", func(c *gin.Context) {
		p.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
			h.reads++
			return map[string]string{"value": h.value}, nil
		})
	})
	r.POST("/items", func(c *gin.Context) {
		p.Mutate(c, "items", func(ctx context.Context, db *gorm.DB) (Result, error) {
			if h.fail != nil {
				return Result{}, h.fail
			}
			h.value = "v2"
			return Result{Status: http.StatusCreated, Body: gin.H{"message": "ok"}, Action: "created", ID: 1}, nil
		})
	})
	h.engine = r
	return h
}

func (h *harness) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRead_MissThenHit(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "MISS", w.Header().Get(HeaderCache))
	require.JSONEq(t, `{"value":"v1"}`, w.Body.String())

	w = h.do(http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "HIT", w.Header().Get(HeaderCache))
	require.JSONEq(t, `{"value":"v1"}`, w.Body.String())
	require.Equal(t, 1, h.reads, "repository must not run on a hit")
	require.Equal(t, 2, h.conns.acquired, "connection is acquired before the cache lookup")
}

func TestRead_QueryStringsAreDistinctKeys(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodGet, "/items?x=1")
	h.do(http.MethodGet, "/items?x=2")
	h.do(http.MethodGet, "/items?x=1")

	require.Equal(t, 2, h.reads)
}

func TestMutate_InvalidatesOnSuccess(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/items")

	w := h.do(http.MethodPost, "/items")
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodGet, "/items")
	require.Equal(t, "MISS", w.Header().Get(HeaderCache))
	require.JSONEq(t, `{"value":"v2"}`, w.Body.String())
	require.Equal(t, 2, h.reads)
}

func TestMutate_FailureKeepsCache(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/items")
	h.fail = apperr.MissingFields("nome")

	w := h.do(http.MethodPost, "/items")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.EqualValues(t, 0, h.cache.SnapshotGen())

	w = h.do(http.MethodGet, "/items")
	require.Equal(t, "HIT", w.Header().Get(HeaderCache))
}

func TestConnectionFailureShortCircuits(t *testing.T) {
	h := newHarness(t)
	h.conns.err = errors.New("connection refused")

	w := h.do(http.MethodGet, "/items")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Falha ao conectar ao banco de dados")
	require.Zero(t, h.reads)

	w = h.do(http.MethodPost, "/items")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "v1", h.value)
}

func TestRead_PopulateOvertakenByMutationIsDropped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rc := cache.NewResponseCache(cache.NewMemoryStore(), time.Minute, zerolog.Nop())
	p := New(&fakeConns{}, rc, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		p.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
			// A concurrent mutation commits and invalidates mid-read.
			_, _ = rc.InvalidateAll(ctx, "items")
			return "stale", nil
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := rc.Get(context.Background(), "/items")
	require.False(t, ok)
}

func TestNilCache_AlwaysReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reads := 0
	p := New(&fakeConns{}, nil, nil, zerolog.Nop())
	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		p.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
			reads++
			return []int{}, nil
		})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 2, reads)
}

type sleepyClient struct{ delay time.Duration }

func (s sleepyClient) Send([]byte) bool {
	time.Sleep(s.delay)
	return true
}

func (sleepyClient) Close() {}

func TestMutate_SlowSubscribersDoNotDelayResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub(zerolog.Nop())
	hub.Register(&sleepyClient{delay: time.Second})
	hub.Register(&sleepyClient{delay: time.Second})
	rc := cache.NewResponseCache(cache.NewMemoryStore(), time.Minute, zerolog.Nop())
	p := New(&fakeConns{}, rc, hub, zerolog.Nop())

	r := gin.New()
	r.POST("/items", func(c *gin.Context) {
		p.Mutate(c, "items", func(ctx context.Context, db *gorm.DB) (Result, error) {
			return Result{Status: http.StatusCreated, Body: gin.H{"message": "ok"}, Action: "created", ID: 1}, nil
		})
	})

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Less(t, time.Since(start), 500*time.Millisecond)
	require.EqualValues(t, 1, rc.SnapshotGen(), "cache invalidation stays synchronous")
}
