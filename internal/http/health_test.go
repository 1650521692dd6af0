package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

type stubCheckpoint struct {
	last time.Time
	err  error
}

func (s stubCheckpoint) LastRun() (time.Time, error) { return s.last, s.err }

func serveHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	return w, decode[HealthResponse](t, w)
}

func TestHealthController_Status(t *testing.T) {
	t.Run("reports counts and backend", func(t *testing.T) {
		svc := catalog.NewService(nil)
		_, _, _ = svc.CreateUser(entities.User{ID: "u1", Preferences: []string{"Fantasy"}})
		_, _, _ = svc.CreateBook(entities.Book{ID: "b1", Genre: "Fantasy"})

		w, response := serveHealth(t, NewHealthController(svc, nil, "sqlite", false, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, catalog.Counts{Users: 1, Books: 1, Recommendations: 1}, response.Counts)
		assert.Equal(t, "sqlite", response.Checks["storage"])
		assert.Equal(t, "not configured", response.Checks["checkpoint"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("pending checkpoint is healthy", func(t *testing.T) {
		w, response := serveHealth(t, NewHealthController(nil, stubCheckpoint{}, "json", true, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pending", response.Checks["checkpoint"])
		assert.True(t, response.ReadOnly)
	})

	t.Run("failed checkpoint is unhealthy", func(t *testing.T) {
		cp := stubCheckpoint{last: time.Now(), err: errors.New("disk full")}
		w, response := serveHealth(t, NewHealthController(nil, cp, "json", false, ""))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["checkpoint"], "disk full")
	})

	t.Run("successful checkpoint", func(t *testing.T) {
		_, response := serveHealth(t, NewHealthController(nil, stubCheckpoint{last: time.Now()}, "json", false, ""))
		assert.Equal(t, "ok", response.Checks["checkpoint"])
	})
}
