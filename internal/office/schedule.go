package office

import (
	"math"
	"sort"
)

const scheduleRetries = 10

// generateEvents replaces the event registry with a fresh random schedule.
// Start times are spread out on a best effort basis: a candidate that lands
// too close to an existing event is re-drawn a few times, then kept anyway.
func (m *Manager) generateEvents() {
	m.titles.Reset()
	n := m.between(m.cfg.EventsMin, m.cfg.EventsMax)
	shift := int(m.cfg.WorkingHours * 60)

	m.events = make([]*Event, 0, n)
	m.eventByID = make(map[string]*Event, n)
	starts := make([]int, 0, n)
	for i := 0; i < n; i++ {
		duration := m.between(m.cfg.EventDurationMinMinutes, m.cfg.EventDurationMaxMinutes)
		latest := max(shift-duration, m.cfg.EventEarliestStartMinutes)

		start := m.between(m.cfg.EventEarliestStartMinutes, latest)
		for try := 1; try < scheduleRetries && tooClose(start, starts, m.cfg.EventMinSpacingMinutes); try++ {
			start = m.between(m.cfg.EventEarliestStartMinutes, latest)
		}
		starts = append(starts, start)

		ev := &Event{
			ID:    m.ids.New("event"),
			Title: m.titles.Next(),
			Start: m.cfg.MinutesToUnits(float64(start)),
			End:   m.cfg.MinutesToUnits(float64(start + duration)),
		}
		m.events = append(m.events, ev)
		m.eventByID[ev.ID] = ev
	}
	sort.SliceStable(m.events, func(i, j int) bool { return m.events[i].Start < m.events[j].Start })
}

func tooClose(start int, starts []int, spacing int) bool {
	for _, s := range starts {
		if int(math.Abs(float64(start-s))) < spacing {
			return true
		}
	}
	return false
}

// assignEvents invites every worker to a few distinct events drawn uniformly
// from the day's schedule.
func (m *Manager) assignEvents() {
	if len(m.events) == 0 {
		return
	}
	for _, w := range m.workers {
		n := min(m.between(m.cfg.EventsPerWorkerMin, m.cfg.EventsPerWorkerMax), len(m.events))
		for _, i := range m.rng.Perm(len(m.events))[:n] {
			ev := m.events[i]
			ev.Attendees = append(ev.Attendees, w.ID)
			w.EventIDs = append(w.EventIDs, ev.ID)
		}
		sortEventIDs(w.EventIDs, m.eventByID)
	}
	for _, w := range m.workers {
		m.refreshNextEventTime(w)
	}
}

// nextEvent returns the worker's earliest event that has not ended and was
// not given up on.
func (m *Manager) nextEvent(w *Worker) *Event {
	for _, id := range w.EventIDs {
		ev := m.eventByID[id]
		if ev == nil || w.skipped[id] || m.currentTime >= ev.End {
			continue
		}
		return ev
	}
	return nil
}

// upcomingEvent returns the next event if it is already running or starts
// within the lookahead window. The window is re-drawn on every call, so
// workers leave for the same meeting at slightly different times.
func (m *Manager) upcomingEvent(w *Worker) *Event {
	ev := m.nextEvent(w)
	if ev == nil {
		return nil
	}
	window := m.cfg.MinutesToUnits(float64(m.between(m.cfg.LookaheadMinMinutes, m.cfg.LookaheadMaxMinutes)))
	if ev.Start-m.currentTime <= window {
		return ev
	}
	return nil
}

// spanningEvent returns an event of the worker's that is running right now.
func (m *Manager) spanningEvent(w *Worker) *Event {
	for _, id := range w.EventIDs {
		if ev := m.eventByID[id]; ev != nil && !w.skipped[id] && ev.Spans(m.currentTime) {
			return ev
		}
	}
	return nil
}

func (m *Manager) refreshNextEventTime(w *Worker) {
	w.NextEventTime = nil
	for _, id := range w.EventIDs {
		ev := m.eventByID[id]
		if ev == nil || w.skipped[id] || ev.Start <= m.currentTime {
			continue
		}
		start := ev.Start
		w.NextEventTime = &start
		return
	}
}

func (m *Manager) skipEvent(w *Worker, ev *Event) {
	if w.skipped == nil {
		w.skipped = make(map[string]bool)
	}
	w.skipped[ev.ID] = true
}
