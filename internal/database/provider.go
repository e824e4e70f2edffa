package database

import (
	"context"
	"database/sql"

	"catalog-api/internal/apperr"

	"gorm.io/gorm"
)

// Provider hands out one dedicated connection per request.
type Provider struct {
	db *gorm.DB
}

// NewProvider wraps an opened gorm handle.
func NewProvider(db *gorm.DB) *Provider {
	return &Provider{db: db}
}

// Conn is a request-scoped database connection. DB runs every statement on
// the same underlying *sql.Conn until Release is called.
type Conn struct {
	DB  *gorm.DB
	raw *sql.Conn
}

// Acquire checks out a connection from the pool and binds it to a fresh gorm
// session carrying ctx. Failures are reported as apperr.KindConnection.
func (p *Provider) Acquire(ctx context.Context) (*Conn, error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, apperr.Connection(err)
	}
	raw, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, apperr.Connection(err)
	}

	session := p.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	// Same binding gorm uses for transactions: every statement built from
	// this session inherits ConnPool.
	session.Statement.ConnPool = raw

	return &Conn{DB: session, raw: raw}, nil
}

// Release returns the connection to the pool. It is safe to call more than once.
func (c *Conn) Release() error {
	if c == nil || c.raw == nil {
		return nil
	}
	err := c.raw.Close()
	c.raw = nil
	return err
}

// Ping checks that a connection can be obtained and used.
func (p *Provider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return apperr.Connection(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Connection(err)
	}
	return nil
}
