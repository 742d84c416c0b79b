// Package neo4j implements the graph read port on top of the official Neo4j driver.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"go.uber.org/zap"
)

// Config holds Neo4j connection configuration
type Config struct {
	URL      string
	Username string
	Password string
	Database string

	MaxConnectionPoolSize        int
	ConnectionAcquisitionTimeout time.Duration
	VerifyTimeout                time.Duration
}

// NewDriver creates the shared driver and verifies the store is reachable.
// Any failure is returned to the caller; there is no retry.
func NewDriver(ctx context.Context, cfg Config, logger *zap.Logger) (neo4j.DriverWithContext, error) {
	if cfg.URL == "" {
		return nil, errors.New("neo4j: URL is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("neo4j: username and password are required")
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.URL,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			if cfg.ConnectionAcquisitionTimeout > 0 {
				c.ConnectionAcquisitionTimeout = cfg.ConnectionAcquisitionTimeout
			}
			// Managed transactions fail on the first error.
			c.MaxTransactionRetryTime = 0
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	logger.Info("Connected to Neo4j",
		zap.String("url", cfg.URL),
		zap.String("database", cfg.Database),
	)
	return driver, nil
}
