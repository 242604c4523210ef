package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectTimeout = 5 * time.Second

// Postgres wraps DB connectivity.
// Repository adapters share the handle; transactional consistency between
// avatar state and outbox rows lives in the adapters themselves.
type Postgres struct {
	DB *gorm.DB
}

// Connect opens a gorm handle and verifies the connection before handing it
// out. A failed ping closes the pool so callers never see a half-open handle.
func Connect(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	pool, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: gormDB}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	pool, err := p.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
