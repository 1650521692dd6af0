package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

type fixedSource struct{ data snapshot.Data }

func (f fixedSource) Snapshot() snapshot.Data { return f.data }

type memoryStore struct {
	mu    sync.Mutex
	saved []snapshot.Data
	err   error
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) Load(context.Context) (snapshot.Data, error) { return snapshot.Data{}, nil }

func (m *memoryStore) Save(_ context.Context, d snapshot.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, d)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func TestCheckpointScheduler_RunNow(t *testing.T) {
	src := fixedSource{snapshot.Data{Users: []entities.User{{ID: "u1"}}}}
	store := &memoryStore{}
	s := NewCheckpointScheduler(src, store, false, "*/15 * * * *")

	require.NoError(t, s.RunNow(context.Background()))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "u1", store.saved[0].Users[0].ID)

	last, err := s.LastRun()
	assert.NoError(t, err)
	assert.False(t, last.IsZero())

	t.Run("save failure is reported", func(t *testing.T) {
		store.err = errors.New("disk full")
		err := s.RunNow(context.Background())
		assert.ErrorContains(t, err, "disk full")

		_, lastErr := s.LastRun()
		assert.Error(t, lastErr)
	})
}

func TestCheckpointScheduler_StartStop(t *testing.T) {
	t.Run("disabled does not start", func(t *testing.T) {
		s := NewCheckpointScheduler(fixedSource{}, &memoryStore{}, false, "*/15 * * * *")
		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})

	t.Run("invalid schedule is rejected", func(t *testing.T) {
		s := NewCheckpointScheduler(fixedSource{}, &memoryStore{}, true, "every minute")
		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("enabled runs until stopped", func(t *testing.T) {
		s := NewCheckpointScheduler(fixedSource{}, &memoryStore{}, true, "0 3 * * *")
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		require.NotNil(t, s.NextRunTime())

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("* * * * * *"), "seconds field is not accepted")
	assert.Error(t, ValidateSchedule(""))
}
