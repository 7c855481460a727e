package office

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officesim-backend/internal/geom"
)

func TestDeskArrival_NoDeskNearbyWanders(t *testing.T) {
	m := newManager(t, quietConfig(), smallLayout(1, 0), 1)
	w := m.workers[0]
	w.State = StateMovingToDesk
	w.Position = geom.Pt(300, 200)

	m.handleDeskArrival(w)
	assert.Equal(t, StateWandering, w.State)
	require.NotNil(t, w.Destination)
	assert.True(t, m.layout.Floor().Inflate(-floorMargin).Contains(*w.Destination))
	assert.Empty(t, w.Desk.CurrentID)
	assert.Equal(t, DeskAvailable, m.desks[0].State)
}

func TestDecideWandering_FrustratedRetry(t *testing.T) {
	cfg := quietConfig()
	cfg.FrustratedRetryChance = 1
	m := newManager(t, cfg, smallLayout(1, 0), 1)
	w := m.workers[0]
	w.State = StateWandering
	w.Mood = MoodFrustrated
	w.DeskSearchAttempts = cfg.MaxDeskSearchAttempts
	w.Position = geom.Pt(300, 200)

	m.decideWandering(w)
	assert.Equal(t, StateMovingToDesk, w.State)
	assert.Zero(t, w.DeskSearchAttempts)
	require.NotNil(t, w.Destination)
	assert.Equal(t, m.desks[0].Destination(), *w.Destination)

	tickUntil(t, m, 1000, func() bool { return w.State == StateWorking })
	assert.Equal(t, MoodHappy, w.Mood)
	assert.Equal(t, m.desks[0].ID, w.Desk.CurrentID)
}

func TestDecideWandering_ConfusedWorkerDoesNotRetry(t *testing.T) {
	cfg := quietConfig()
	cfg.FrustratedRetryChance = 1
	m := newManager(t, cfg, smallLayout(1, 0), 1)
	w := m.workers[0]
	w.State = StateWandering
	w.Mood = MoodConfused
	w.DeskSearchAttempts = 1
	w.setDestination(geom.Pt(300, 200))

	m.decideWandering(w)
	assert.Equal(t, StateWandering, w.State)
	assert.Equal(t, 1, w.DeskSearchAttempts)
}

func TestRerollWanderMood(t *testing.T) {
	cfg := quietConfig()
	cfg.WanderMoodChance = 1

	t.Run("retry cap stays frustrated", func(t *testing.T) {
		m := newManager(t, cfg, smallLayout(1, 0), 1)
		w := m.workers[0]
		w.State = StateWandering
		w.Mood = MoodFrustrated
		w.DeskSearchAttempts = cfg.MaxDeskSearchAttempts
		w.setDestination(geom.Pt(300, 200))

		for i := 0; i < 50; i++ {
			m.decideWandering(w)
			require.Equal(t, MoodFrustrated, w.Mood)
		}
		assert.Equal(t, StateWandering, w.State)
	})

	t.Run("below the cap flips quietly", func(t *testing.T) {
		obs := &recordingObserver{}
		m, err := New(cfg, smallLayout(1, 0), WithObserver(obs))
		require.NoError(t, err)
		require.NoError(t, m.InitializeOffice(1))
		w := m.workers[0]
		w.State = StateWandering
		w.Mood = MoodConfused
		w.DeskSearchAttempts = 1
		w.setDestination(geom.Pt(300, 200))

		seen := make(map[Mood]int)
		for i := 0; i < 100; i++ {
			m.decideWandering(w)
			seen[w.Mood]++
		}
		assert.Positive(t, seen[MoodConfused])
		assert.Positive(t, seen[MoodFrustrated])
		assert.Zero(t, seen[MoodHappy])
		assert.Empty(t, obs.frustrated)
	})
}
