package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officesim-backend/config"
	"officesim-backend/internal/db"
	"officesim-backend/internal/model"
	"officesim-backend/internal/notification"
	"officesim-backend/internal/office"
	"officesim-backend/internal/simulation"
	"officesim-backend/internal/store"
)

// recordingPool queues on a real worker pool and remembers what it accepted.
type recordingPool struct {
	*notification.WorkerPool

	mu    sync.Mutex
	desks []string
}

func (p *recordingPool) TryDispatch(deskID string) bool {
	ok := p.WorkerPool.TryDispatch(deskID)
	if ok {
		p.mu.Lock()
		p.desks = append(p.desks, deskID)
		p.mu.Unlock()
	}
	return ok
}

func (p *recordingPool) dispatched() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.desks...)
}

// TestOccupancyLifecycle drives one worker onto the only desk, off to a
// meeting and through a day boundary, checking the database at each step.
func TestOccupancyLifecycle(t *testing.T) {
	// --- Test Setup ---
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:lifecycle?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	appStore := store.NewGormStore(gormDB)
	// not started: dispatched desks stay on the queue
	pool := &recordingPool{WorkerPool: notification.NewWorkerPool(1, gormDB, &webpush.Options{})}

	svc, err := simulation.NewService(config.SimulationConfig{
		TimePerTick:       0.01,
		PersistEveryTicks: 1,
		WorkerCount:       1,
		DeskCount:         1,
		SpaceCount:        1,
		Width:             600,
		Height:            400,
		Seed:              21,
	}, appStore, pool)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	snap := svc.Snapshot()
	deskID := snap.Desks[0].ID
	spaceID := snap.Spaces[0].ID
	workerID := snap.Workers[0].ID

	// tickUntil runs worker updates until cond holds on the snapshot.
	tickUntil := func(t *testing.T, cond func(office.Snapshot) bool) {
		t.Helper()
		for i := 0; i < 100; i++ {
			if cond(svc.Snapshot()) {
				return
			}
			require.NoError(t, svc.Tick(ctx, 10))
		}
		t.Fatalf("condition not reached after 1000 ticks")
	}

	t.Run("layout is stored", func(t *testing.T) {
		var desk model.Desk
		require.NoError(t, gormDB.First(&desk, "id = ?", deskID).Error)
		assert.Equal(t, snap.Desks[0].Name, desk.DisplayName)

		var space model.Space
		require.NoError(t, gormDB.First(&space, "id = ?", spaceID).Error)
	})

	// --- Cycle 1: the desk becomes occupied ---
	t.Run("desk becomes occupied", func(t *testing.T) {
		tickUntil(t, func(s office.Snapshot) bool {
			w, _ := s.Worker(workerID)
			return w.State == office.StateWorking
		})

		var open model.OccupancyOpen
		require.NoError(t, gormDB.First(&open, "resource_id = ?", deskID).Error)
		assert.Equal(t, model.KindDesk, open.Kind)
		assert.Equal(t, string(office.DeskOccupied), open.State)
		assert.Equal(t, workerID, open.OccupantID)
		assert.Equal(t, 0, open.Day)
		assert.WithinDuration(t, time.Now(), open.ObservedAt, 5*time.Second)

		var historyCount int64
		gormDB.Model(&model.OccupancyHistory{}).Where("resource_id = ?", deskID).Count(&historyCount)
		assert.Equal(t, int64(0), historyCount)
	})

	// --- Cycle 2: the worker leaves for a meeting ---
	t.Run("desk is freed for a meeting", func(t *testing.T) {
		require.NoError(t, svc.ForceEvent(ctx, workerID))
		require.NoError(t, svc.Tick(ctx, 1))

		var openCount int64
		gormDB.Model(&model.OccupancyOpen{}).Where("resource_id = ?", deskID).Count(&openCount)
		assert.Equal(t, int64(0), openCount)

		history, err := appStore.History(ctx, deskID, svc.StoreDay())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, string(office.DeskOccupied), history[0].State)
		assert.Equal(t, workerID, history[0].OccupantID)
		assert.LessOrEqual(t, history[0].PeriodStart, history[0].PeriodEnd)

		assert.Equal(t, []string{deskID}, pool.dispatched(), "expected the freed desk to be dispatched")
	})

	t.Run("meeting space becomes occupied", func(t *testing.T) {
		tickUntil(t, func(s office.Snapshot) bool {
			w, _ := s.Worker(workerID)
			return w.State == office.StateAttendingEvent
		})

		var open model.OccupancyOpen
		require.NoError(t, gormDB.First(&open, "resource_id = ?", spaceID).Error)
		assert.Equal(t, model.KindSpace, open.Kind)
		assert.Equal(t, string(office.SpaceOccupied), open.State)
		assert.NotEmpty(t, open.EventID)
	})

	// --- Cycle 3: the day rolls over ---
	t.Run("day reset purges yesterday", func(t *testing.T) {
		require.NoError(t, svc.ResetDay(ctx))
		assert.Equal(t, 1, svc.StoreDay())

		var historyCount, openCount int64
		gormDB.Model(&model.OccupancyHistory{}).Count(&historyCount)
		gormDB.Model(&model.OccupancyOpen{}).Count(&openCount)
		assert.Equal(t, int64(0), historyCount)
		assert.Equal(t, int64(0), openCount)
		assert.Equal(t, []string{deskID}, pool.dispatched())
	})
}
