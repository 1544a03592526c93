package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SystemHandler exposes a lightweight operational status snapshot.
type SystemHandler struct {
	rdb       *redis.Client
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(rdb *redis.Client) *SystemHandler {
	return &SystemHandler{rdb: rdb, startTime: time.Now()}
}

// SystemStatus godoc
// GET /api/v1/admin/system/status
func (h *SystemHandler) SystemStatus(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	queueDepth, err := h.rdb.LLen(c.Request.Context(), config.WorkerKey.SessionEventsQueue).Result()
	if err != nil {
		queueDepth = -1
	}

	response.Success(c, http.StatusOK, gin.H{
		"uptime":           formatDuration(time.Since(h.startTime)),
		"go_version":       runtime.Version(),
		"goroutines":       runtime.NumGoroutine(),
		"heap_alloc_bytes": ms.HeapAlloc,
		"num_gc":           ms.NumGC,
		"queue_events":     queueDepth,
	})
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
