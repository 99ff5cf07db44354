package services

import (
	"context"
	"errors"
	"runtime"
	"time"

	"amiasbakery_server/database"

	"github.com/MonkyMars/gecho"
)

var uptimeStart time.Time

var errDatabaseNotConfigured = errors.New("database handle not configured")

func init() {
	uptimeStart = time.Now()
}

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type connectionHealthStatus struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	OpenConns      int       `json:"open_connections,omitempty"`
}

type databaseHealthStatus struct {
	Writer connectionHealthStatus `json:"writer"`
	Reader connectionHealthStatus `json:"reader"`
}

type HealthService struct {
	logger *gecho.Logger
	db     database.Handles
	cache  *CacheService
	status serverHealthStatus
}

func NewHealthService(logger *gecho.Logger, db database.Handles, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		cache:  cache,
		status: serverHealthStatus{
			Uptime:       0,
			CurrentTime:  time.Now(),
			ServiceAlive: true,
			RamStats:     getRamStats(),
		},
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	hs.status.Uptime = time.Since(uptimeStart).Seconds()
	hs.status.CurrentTime = time.Now()
	hs.status.RamStats = getRamStats()
	return hs.status
}

// GetDatabaseHealthStatus pings both handles. The error is the first failure.
func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, error) {
	writer, writerErr := hs.pingDatabase(ctx, "writer", hs.db.Writer)
	reader, readerErr := hs.pingDatabase(ctx, "reader", hs.db.Reader)

	status := databaseHealthStatus{Writer: writer, Reader: reader}
	if writerErr != nil {
		return status, writerErr
	}
	return status, readerErr
}

func (hs *HealthService) pingDatabase(ctx context.Context, name string, db *database.DB) (connectionHealthStatus, error) {
	if db == nil {
		return connectionHealthStatus{LastChecked: time.Now()}, errDatabaseNotConfigured
	}

	start := time.Now()
	err := db.PingContext(ctx)
	status := connectionHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
		OpenConns:      db.GetStats().OpenConnections,
	}

	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("handle", name), gecho.Field("error", err))
	}
	return status, err
}

func (hs *HealthService) GetCacheHealthStatus() (connectionHealthStatus, error) {
	start := time.Now()
	err := hs.cache.Ping()
	status := connectionHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Cache health check failed", gecho.Field("error", err))
	}
	return status, err
}
