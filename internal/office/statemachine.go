package office

// stateHandler is one row of the worker state machine. decide runs at the
// start of every tick the worker spends in the state; arrive runs once the
// worker reaches its destination. Either may be nil.
type stateHandler struct {
	decide func(w *Worker)
	arrive func(w *Worker)
}

// stateTable wires each physical state to its handlers. Moving states have
// no decide step: a worker in transit is only re-evaluated on arrival.
func (m *Manager) stateTable() map[PhysicalState]stateHandler {
	return map[PhysicalState]stateHandler{
		StateArriving: {
			arrive: m.findDeskForWorker,
		},
		StateMovingToDesk: {
			arrive: m.handleDeskArrival,
		},
		StateMovingToSpace: {
			arrive: m.handleSpaceArrival,
		},
		StateWorking: {
			decide: m.decideWorking,
		},
		StateAttendingEvent: {
			decide: m.checkEventCompletion,
		},
		StateWandering: {
			decide: m.decideWandering,
			arrive: m.wanderArrival,
		},
	}
}

func (m *Manager) decideWorking(w *Worker) {
	if ev := m.upcomingEvent(w); ev != nil {
		m.departForEvent(w, ev)
		return
	}
	if m.chance(m.cfg.IdleDialogChance) {
		m.say(w, pick(m.rng, idleLines))
	}
}

func (m *Manager) decideWandering(w *Worker) {
	if ev := m.upcomingEvent(w); ev != nil {
		m.departForEvent(w, ev)
		return
	}

	if w.Mood == MoodFrustrated && m.chance(m.cfg.FrustratedRetryChance) {
		w.DeskSearchAttempts = 0
		m.findDeskForWorker(w)
		return
	}

	if m.chance(m.cfg.WanderMoodChance) {
		m.rerollWanderMood(w)
	}
	if m.chance(m.cfg.WanderDialogChance) {
		m.say(w, pick(m.rng, wanderLines[w.Mood]))
	}
}

func (m *Manager) wanderArrival(w *Worker) {
	if m.chance(m.cfg.WanderRetryChance) {
		m.findDeskForWorker(w)
		return
	}
	m.wander(w)
}

// rerollWanderMood flips an idle wanderer between the two unhappy moods.
// A worker who has used up every desk search stays frustrated. The flip is
// cosmetic, so the observer is not told about it.
func (m *Manager) rerollWanderMood(w *Worker) {
	if w.DeskSearchAttempts >= m.cfg.MaxDeskSearchAttempts {
		w.Mood = MoodFrustrated
		return
	}
	if m.rng.IntN(2) == 0 {
		w.Mood = MoodConfused
	} else {
		w.Mood = MoodFrustrated
	}
}
