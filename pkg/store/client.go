// Package store implements the relational store client for InterSystems IRIS:
// a single-connection wrapper providing fetch, transaction-framed DDL/DML,
// catalog introspection, and bulk table loading.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/config"
)

// Client wraps exactly one database session. All state is instance-scoped and
// unsynchronized; callers needing concurrency must use one Client per thread
// of control or serialize access externally. Every operation is a blocking
// round trip with no retries.
type Client struct {
	db        *sql.DB
	logger    *zap.Logger
	sessionID uuid.UUID
	closed    bool
}

// Open connects to the configured IRIS endpoint and verifies the connection.
func Open(cfg *config.IRISConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to iris: %w", err)
	}
	// One session per client. The pool is collapsed to a single connection so
	// transaction framing and statement execution share the same session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to iris: %w", err)
	}

	c := newClient(db, logger)
	c.logger.Info("connected",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("namespace", cfg.Namespace),
		zap.String("user", cfg.Username))
	return c, nil
}

// NewWithDB wraps an already-open database handle. Used by tests and by
// callers that manage the connection themselves.
func NewWithDB(db *sql.DB, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newClient(db, logger)
}

func newClient(db *sql.DB, logger *zap.Logger) *Client {
	id := uuid.New()
	return &Client{
		db:        db,
		logger:    logger.Named("store").With(zap.String("session", id.String())),
		sessionID: id,
	}
}

// Close releases the connection. Safe to call more than once.
func (c *Client) Close() error {
	if c.closed || c.db == nil {
		return nil
	}
	c.closed = true
	c.logger.Debug("connection closed")
	return c.db.Close()
}

// With opens a client, runs fn, and guarantees the connection is released on
// both normal and error exit.
func With(cfg *config.IRISConfig, logger *zap.Logger, fn func(*Client) error) error {
	c, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
