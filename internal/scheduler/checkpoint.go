package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

// Source hands out a consistent copy of the in-memory state.
type Source interface {
	Snapshot() snapshot.Data
}

// CheckpointScheduler periodically flushes the in-memory collections to the
// snapshot backend so that a crash loses at most one interval of writes.
type CheckpointScheduler struct {
	source   Source
	store    snapshot.Store
	schedule string
	enabled  bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	saveMu     sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc

	statusMu sync.Mutex
	lastRun  time.Time
	lastErr  error
}

func NewCheckpointScheduler(source Source, store snapshot.Store, enabled bool, schedule string) *CheckpointScheduler {
	return &CheckpointScheduler{
		source:   source,
		store:    store,
		schedule: schedule,
		enabled:  enabled,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a 5-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler if checkpoints are enabled
func (s *CheckpointScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		logging.Info().Msg("checkpoint scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		_ = s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule checkpoint job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	logging.Info().
		Str("schedule", s.schedule).
		Str("backend", s.store.Name()).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("checkpoint scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running checkpoint to finish.
func (s *CheckpointScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	logging.Info().Msg("checkpoint scheduler stopped")
}

// RunNow writes a checkpoint immediately. It is also used for the final
// flush at shutdown. Concurrent calls are serialized.
func (s *CheckpointScheduler) RunNow(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	start := time.Now()
	data := s.source.Snapshot()
	err := s.store.Save(ctx, data)

	s.statusMu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.statusMu.Unlock()

	users, books, reviews, recs := data.Counts()
	if err != nil {
		logging.Error().Err(err).Str("backend", s.store.Name()).Msg("checkpoint failed")
		return fmt.Errorf("checkpoint: %w", err)
	}

	logging.Info().
		Str("backend", s.store.Name()).
		Int("users", users).
		Int("books", books).
		Int("reviews", reviews).
		Int("recommendations", recs).
		Dur("elapsed", time.Since(start)).
		Msg("checkpoint written")
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *CheckpointScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next checkpoint will occur
func (s *CheckpointScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	t := s.cron.Entry(s.entryID).Next
	return &t
}

// LastRun reports the start time and outcome of the most recent checkpoint.
func (s *CheckpointScheduler) LastRun() (time.Time, error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.lastRun, s.lastErr
}
