package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const pingTimeout = 5 * time.Second

// PoolSnapshot is the connection pool section of the /health/db response.
type PoolSnapshot struct {
	Total           int32  `json:"total"`
	Idle            int32  `json:"idle"`
	InUse           int32  `json:"in_use"`
	Max             int32  `json:"max"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

// Snapshot reads current pool statistics.
func Snapshot(pool *pgxpool.Pool) PoolSnapshot {
	s := pool.Stat()
	return PoolSnapshot{
		Total:           s.TotalConns(),
		Idle:            s.IdleConns(),
		InUse:           s.AcquiredConns(),
		Max:             s.MaxConns(),
		AcquireCount:    s.AcquireCount(),
		AcquireDuration: s.AcquireDuration().String(),
	}
}

// HealthHandler serves the database health endpoint: a bounded ping plus a
// pool snapshot.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"database": "down",
				"error":    err.Error(),
				"pool":     Snapshot(pool),
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"database": "up",
			"pool":     Snapshot(pool),
		})
	}
}
