package config

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PoolConfig parses the connection string and applies pool sizing. NUMERIC
// columns are mapped to shopspring decimals on every connection.
func PoolConfig(cfg DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolCfg.MaxConns = 25
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolCfg, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Dur("retry_in", retryInterval).
			Msg("failed to connect to database")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'OperationsLead'
			CHECK (role IN ('Owner', 'OperationsLead', 'WarehouseStaff', 'LogisticsLead')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));
	-- at most one Owner per deployment
	CREATE UNIQUE INDEX IF NOT EXISTS users_single_owner ON users (role) WHERE role = 'Owner';

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_no TEXT NOT NULL,
		order_date TIMESTAMP WITH TIME ZONE NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		customer_address TEXT NOT NULL DEFAULT '',
		customer_country TEXT NOT NULL DEFAULT '',
		customer_city TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		salesman TEXT NOT NULL DEFAULT '',
		conference TEXT NOT NULL DEFAULT '',
		agency TEXT NOT NULL DEFAULT '',
		guide TEXT NOT NULL DEFAULT '',
		products JSONB NOT NULL DEFAULT '[]'::jsonb,
		process TEXT NOT NULL DEFAULT 'Created'
			CHECK (process IN ('Created', 'InTransfer', 'Delivered', 'Cancelled')),
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date DESC, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_process ON orders(process);
	`

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}
	log.Info().Msg("AutoMigrate applied successfully")
	return nil
}
