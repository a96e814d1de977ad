package middleware

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/yourorg/quizapi/internal/debug"
)

// PoolStater is satisfied by *sql.DB.
type PoolStater interface {
	Stats() sql.DBStats
}

// PeriodicMetricsCollector sends a heartbeat with runtime and connection pool
// figures to the dashboard until ctx is cancelled.
func PeriodicMetricsCollector(ctx context.Context, interval time.Duration, db PoolStater) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !debug.IsEnabled() {
				continue
			}
			debug.SendLog("backend", "debug", "System heartbeat", heartbeat(db))
		}
	}
}

func heartbeat(db PoolStater) map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	metadata := map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"heap_mb":    mem.HeapAlloc / 1024 / 1024,
	}
	if db != nil {
		stats := db.Stats()
		metadata["db_open"] = stats.OpenConnections
		metadata["db_in_use"] = stats.InUse
		metadata["db_idle"] = stats.Idle
		metadata["db_wait_count"] = stats.WaitCount
	}
	return metadata
}
