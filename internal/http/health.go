package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/catalog"
)

// CheckpointStatus reports the outcome of the latest snapshot flush.
type CheckpointStatus interface {
	LastRun() (time.Time, error)
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     string            `json:"time"`
	Version  string            `json:"version,omitempty"`
	ReadOnly bool              `json:"read_only"`
	Counts   catalog.Counts    `json:"counts"`
	Checks   map[string]string `json:"checks"`
}

type HealthController struct {
	counts     CountsProvider
	checkpoint CheckpointStatus
	backend    string
	readOnly   bool
	version    string
}

func NewHealthController(counts CountsProvider, checkpoint CheckpointStatus, backend string, readOnly bool, version string) *HealthController {
	return &HealthController{
		counts:     counts,
		checkpoint: checkpoint,
		backend:    backend,
		readOnly:   readOnly,
		version:    version,
	}
}

// Status is healthy unless the most recent checkpoint failed.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.backend != "" {
		checks["storage"] = h.backend
	} else {
		checks["storage"] = "not configured"
	}

	switch {
	case h.checkpoint == nil:
		checks["checkpoint"] = "not configured"
	default:
		last, err := h.checkpoint.LastRun()
		switch {
		case err != nil:
			checks["checkpoint"] = "error: " + err.Error()
			status = "unhealthy"
		case last.IsZero():
			checks["checkpoint"] = "pending"
		default:
			checks["checkpoint"] = "ok"
		}
	}

	health := HealthResponse{
		Status:   status,
		Time:     time.Now().Format(time.RFC3339),
		Version:  h.version,
		ReadOnly: h.readOnly,
		Checks:   checks,
	}
	if h.counts != nil {
		health.Counts = h.counts.Counts()
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
