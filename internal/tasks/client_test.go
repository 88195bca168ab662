package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "books.db"), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "books-tasks.db"), DatabasePath(filepath.Join("data", "books.db")))
	assert.Equal(t, "catalog-tasks", DatabasePath("catalog"))
}

func TestNewClient_CreatesTasksDatabase(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(filepath.Join(dir, "books.db"), Config{})
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(filepath.Join(dir, "books-tasks.db"))
	assert.NoError(t, err)
	assert.Equal(t, 1, client.workers, "zero config falls back to defaults")
}

func TestClient_StartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx))
	assert.True(t, client.Stop(stopCtx), "stopping twice is a no-op")
}

func TestClient_StopWithoutStart(t *testing.T) {
	assert.True(t, newTestClient(t).Stop(context.Background()))
}

type fakePurger struct {
	cutoffs chan time.Time
	err     error
}

func (f *fakePurger) PurgeBefore(cutoff time.Time) (int64, error) {
	f.cutoffs <- cutoff
	return 3, f.err
}

func TestPurgeAuditEvents_RunsThroughQueue(t *testing.T) {
	client := newTestClient(t)
	purger := &fakePurger{cutoffs: make(chan time.Time, 1)}
	client.Register(NewPurgeAuditEventsQueue(purger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	task := NewPurgeAuditEventsTask(7 * 24 * time.Hour)
	id, err := client.Enqueue(task)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-purger.cutoffs:
		assert.True(t, got.Equal(task.Cutoff), "cutoff survives the round trip through the queue")
	case <-time.After(5 * time.Second):
		t.Fatal("purge task was not executed within timeout")
	}
}

func TestPurgeAuditEventsProcessor(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("purges before the cutoff", func(t *testing.T) {
		purger := &fakePurger{cutoffs: make(chan time.Time, 1)}
		err := purgeAuditEvents(purger)(context.Background(), PurgeAuditEventsTask{Cutoff: cutoff})
		require.NoError(t, err)
		assert.Equal(t, cutoff, <-purger.cutoffs)
	})

	t.Run("propagates errors", func(t *testing.T) {
		purger := &fakePurger{cutoffs: make(chan time.Time, 1), err: errors.New("locked")}
		err := purgeAuditEvents(purger)(context.Background(), PurgeAuditEventsTask{Cutoff: cutoff})
		assert.ErrorContains(t, err, "locked")
	})

	t.Run("rejects a missing cutoff", func(t *testing.T) {
		purger := &fakePurger{cutoffs: make(chan time.Time, 1)}
		err := purgeAuditEvents(purger)(context.Background(), PurgeAuditEventsTask{})
		assert.Error(t, err)
		assert.Empty(t, purger.cutoffs)
	})

	t.Run("requires a purger", func(t *testing.T) {
		err := purgeAuditEvents(nil)(context.Background(), PurgeAuditEventsTask{Cutoff: cutoff})
		assert.Error(t, err)
	})
}

func TestNewPurgeAuditEventsTask(t *testing.T) {
	task := NewPurgeAuditEventsTask(24 * time.Hour)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), task.Cutoff, time.Minute)

	cfg := task.Config()
	assert.Equal(t, PurgeAuditEventsQueue, cfg.Name)
	assert.Equal(t, 5, cfg.MaxAttempts)
	require.NotNil(t, cfg.Retention)
	assert.True(t, cfg.Retention.OnlyFailed)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Workers: 4}.withDefaults()

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

var _ backlite.Task = PurgeAuditEventsTask{}
