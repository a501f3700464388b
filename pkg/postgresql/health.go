package postgresql

import (
	"context"
	"fmt"
	"time"
)

// HealthCheck represents database health information
type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	ActiveConns  int32         `json:"active_connections"`
	IdleConns    int32         `json:"idle_connections"`
	MaxConns     int32         `json:"max_connections"`
	DatabaseName string        `json:"database_name"`
	Error        string        `json:"error,omitempty"`
}

// CheckHealth pings the pool and reports its usage.
func (c *Client) CheckHealth(ctx context.Context) *HealthCheck {
	start := time.Now()

	health := &HealthCheck{DatabaseName: c.DatabaseName()}

	stats := c.Stats()
	health.ActiveConns = stats.AcquiredConns()
	health.IdleConns = stats.IdleConns()
	health.MaxConns = stats.MaxConns()

	var one int
	if err := c.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		health.Status = "unhealthy"
		health.Error = fmt.Sprintf("probe query failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	health.Status = "healthy"
	health.ResponseTime = time.Since(start)
	return health
}

// Check returns an error when the database is not healthy. It fits healthcheck.Checker.
func (c *Client) Check(ctx context.Context) error {
	if h := c.CheckHealth(ctx); h.Status != "healthy" {
		return fmt.Errorf("postgresql %s: %s", h.DatabaseName, h.Error)
	}
	return nil
}
