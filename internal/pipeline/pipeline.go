// Package pipeline runs entity requests through connection acquisition, the
// response cache and the repositories.
//
// GET:    acquire -> cache lookup -> (hit: respond) | (miss: read -> respond -> populate)
// Mutate: acquire -> execute -> invalidate whole cache -> respond
//
// Failures are attached to the gin context with c.Error and rendered once by
// middleware.ErrorHandler. Nothing is invalidated on a failed mutation.
package pipeline

import (
	"context"
	"encoding/json"
	"net/http"

	"catalog-api/internal/cache"
	"catalog-api/internal/database"
	"catalog-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	// HeaderCache reports HIT or MISS on GET responses.
	HeaderCache = "X-Cache"

	contentTypeJSON = "application/json; charset=utf-8"
)

// ConnProvider acquires a request-scoped connection.
type ConnProvider interface {
	Acquire(ctx context.Context) (*database.Conn, error)
}

// ReadFunc loads the payload of a GET using the request's connection.
type ReadFunc func(ctx context.Context, db *gorm.DB) (any, error)

// MutateFunc performs a POST, PUT or DELETE using the request's connection.
type MutateFunc func(ctx context.Context, db *gorm.DB) (Result, error)

// Result is the successful outcome of a mutation.
type Result struct {
	Status int
	Body   any
	// Action and ID describe the change in the invalidation event.
	Action string
	ID     int64
}

// Pipeline is constructed once and shared by all handlers.
type Pipeline struct {
	conns  ConnProvider
	cache  *cache.ResponseCache
	hub    *realtime.Hub
	logger zerolog.Logger
}

// New builds a Pipeline. A nil cache disables caching; a nil hub disables
// invalidation events.
func New(conns ConnProvider, rc *cache.ResponseCache, hub *realtime.Hub, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		conns:  conns,
		cache:  rc,
		hub:    hub,
		logger: logger,
	}
}

// Read serves a GET through the response cache.
func (p *Pipeline) Read(c *gin.Context, fn ReadFunc) {
	ctx := c.Request.Context()
	conn, err := p.conns.Acquire(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer p.release(conn)

	key := c.Request.URL.RequestURI()
	var obs uint64
	if p.cache != nil {
		if body, ok := p.cache.Get(ctx, key); ok {
			c.Header(HeaderCache, "HIT")
			c.Data(http.StatusOK, contentTypeJSON, body)
			return
		}
		obs = p.cache.SnapshotGen()
	}

	payload, err := fn(ctx, conn.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header(HeaderCache, "MISS")
	c.Data(http.StatusOK, contentTypeJSON, body)

	if p.cache != nil {
		p.cache.SetWithGen(ctx, key, body, obs)
	}
}

// Mutate runs fn and, only if it succeeds, invalidates the whole cache before
// writing the response.
func (p *Pipeline) Mutate(c *gin.Context, resource string, fn MutateFunc) {
	ctx := c.Request.Context()
	conn, err := p.conns.Acquire(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer p.release(conn)

	res, err := fn(ctx, conn.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// The mutation is committed: a client disconnect must not skip this.
	p.invalidate(context.WithoutCancel(ctx), resource, res)

	c.JSON(res.Status, res.Body)
}

func (p *Pipeline) invalidate(ctx context.Context, resource string, res Result) {
	var gen uint64
	if p.cache != nil {
		gen, _ = p.cache.InvalidateAll(ctx, resource)
	}
	p.hub.PublishInvalidation(realtime.InvalidationEvent{
		Resource:   resource,
		Action:     res.Action,
		ID:         res.ID,
		Generation: gen,
	})
}

func (p *Pipeline) release(conn *database.Conn) {
	if err := conn.Release(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to release connection")
	}
}
