package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// DependencyCheck reports whether one backing service is reachable.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []DependencyCheck
}

func NewHealthHandler(checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck answers "ok" once every dependency check passes, and 503 naming
// the first failing dependency otherwise.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	for _, dc := range h.checks {
		if dc.Check == nil {
			continue
		}
		if err := dc.Check(ctx); err != nil {
			_ = c.Error(err)
			c.String(http.StatusServiceUnavailable, "unavailable: "+dc.Name)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
