package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GoalCounter reports the size of the goal collection
type GoalCounter interface {
	CountGoals(ctx context.Context) int
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	counter GoalCounter
	storage string
	clock   func() time.Time
}

// NewHealthHandler creates a health handler reporting the given storage driver
func NewHealthHandler(counter GoalCounter, storage string) *HealthHandler {
	return &HealthHandler{
		counter: counter,
		storage: storage,
		clock:   time.Now,
	}
}

// Health ヘルスチェック
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponseDTO{
		Status:    "ok",
		Timestamp: h.clock().Format(time.RFC3339),
		Goals:     h.counter.CountGoals(c.Request.Context()),
		Storage:   h.storage,
	})
}
