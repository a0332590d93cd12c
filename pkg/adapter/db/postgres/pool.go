// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/fleetflow/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool.
// It may be used concurrently by multiple goroutines, each obtaining
// a dedicated Conn using the Conn method.
type Pool struct {
	*gorm.DB
}

type poolConfig struct {
	slowThreshold time.Duration
}

// Option is a functional option for the NewPool function.
type Option func(pc *poolConfig) error

// WithSlowThreshold option configures the minimum duration of queries
// which are logged as slow queries with a warning level.
func WithSlowThreshold(d time.Duration) Option {
	return func(pc *poolConfig) error {
		if d <= 0 {
			return errors.New("slow threshold must be positive")
		}
		pc.slowThreshold = d
		return nil
	}
}

// NewPool creates a connection pool for the url database and tests it
// by obtaining one connection. The GORM logger is bridged to the
// default slog handler.
func NewPool(ctx context.Context, url string, opts ...Option) (*Pool, error) {
	pc := &poolConfig{}
	for _, opt := range opts {
		if err := opt(pc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if pc.slowThreshold == 0 {
		pc.slowThreshold = 200 * time.Millisecond
	}
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             pc.slowThreshold,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
	})
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn obtains a dedicated connection from the pool and passes it to
// the f handler. The connection is released when f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
