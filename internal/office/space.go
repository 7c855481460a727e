package office

import (
	"fmt"

	"officesim-backend/internal/geom"
)

// departForEvent sends w to a room for ev. When no room can be found the
// event is skipped for the rest of the day.
func (m *Manager) departForEvent(w *Worker, ev *Event) {
	s := m.findSpaceForEvent(w, ev, "")
	if s == nil {
		m.skipEvent(w, ev)
		m.setMood(w, MoodFrustrated)
		m.say(w, fmt.Sprintf(pick(m.rng, noRoomLines), ev.Title))
		return
	}
	m.vacateDesk(w)
	m.headToSpace(w, ev, s)
}

// findSpaceForEvent picks where ev should take place: the room already bound
// to it, a room where a fellow invitee sits, or any free room. exclude names
// a room the worker already knows is unusable.
func (m *Manager) findSpaceForEvent(w *Worker, ev *Event, exclude string) *Space {
	if s := m.spaceByID[ev.SpaceID]; s != nil && s.ID != exclude && s.EventID == ev.ID &&
		(s.State == SpaceOccupied || s.State == SpaceAssigned) {
		return s
	}

	for _, id := range ev.Attendees {
		other := m.workerBy[id]
		if other == nil || other == w || other.State != StateAttendingEvent || other.CurrentEventID != ev.ID {
			continue
		}
		if s := m.spaceByID[other.Space.CurrentID]; s != nil && s.ID != exclude && s.State == SpaceOccupied && s.EventID == ev.ID {
			return s
		}
	}

	var free []*Space
	for _, s := range m.spaces {
		if s.State == SpaceAvailable && s.ID != exclude {
			free = append(free, s)
		}
	}
	if len(free) == 0 {
		return nil
	}
	return free[m.rng.IntN(len(free))]
}

// headToSpace walks w into s. A managed office reserves a free room for the
// event so nobody else claims it while attendees are on the way.
func (m *Manager) headToSpace(w *Worker, ev *Event, s *Space) {
	w.CurrentEventID = ev.ID
	w.State = StateMovingToSpace
	w.setDestination(geom.RandomPointIn(m.rng, s.Bounds().Inflate(-2)))

	if m.managed && s.State == SpaceAvailable {
		s.State = SpaceAssigned
		s.EventID = ev.ID
		ev.SpaceID = s.ID
	}
}

func (m *Manager) handleSpaceArrival(w *Worker) {
	s := m.spaceAt(w.Position)
	if s == nil {
		w.CurrentEventID = ""
		m.wander(w)
		return
	}

	ev := m.eventByID[w.CurrentEventID]
	if ev == nil || m.currentTime >= ev.End || w.skipped[ev.ID] {
		ev = m.upcomingEvent(w)
	}
	if ev == nil {
		w.CurrentEventID = ""
		m.returnToLastDesk(w)
		return
	}

	switch {
	case s.State == SpaceOccupied && s.EventID == ev.ID:
	case s.State == SpaceAvailable, s.State == SpaceAssigned && s.EventID == ev.ID:
		s.State = SpaceOccupied
		s.EventID = ev.ID
		ev.SpaceID = s.ID
	default:
		m.setMood(w, MoodConfused)
		m.say(w, pick(m.rng, roomTakenLines))
		if alt := m.findSpaceForEvent(w, ev, s.ID); alt != nil {
			m.headToSpace(w, ev, alt)
			return
		}
		m.skipEvent(w, ev)
		w.CurrentEventID = ""
		m.returnToLastDesk(w)
		return
	}

	w.CurrentEventID = ev.ID
	w.Space.Occupy(s.ID, m.currentTime)
	w.State = StateAttendingEvent
	if w.DeskSearchAttempts < m.cfg.MaxDeskSearchAttempts {
		m.setMood(w, MoodHappy)
	}
	m.say(w, fmt.Sprintf(pick(m.rng, meetingLines), ev.Title))
}

// checkEventCompletion releases the room once the worker's event is over and
// moves on to the next overlapping event or back to a desk.
func (m *Manager) checkEventCompletion(w *Worker) {
	ev := m.eventByID[w.CurrentEventID]
	if ev != nil && m.currentTime < ev.End {
		return
	}

	m.leaveSpace(w)
	if next := m.spanningEvent(w); next != nil {
		m.departForEvent(w, next)
		if w.State == StateMovingToSpace {
			return
		}
	}
	m.returnToLastDesk(w)
}

// leaveSpace vacates the worker's room. The room stays occupied while any
// other attendee of its event is still inside.
func (m *Manager) leaveSpace(w *Worker) {
	id := w.Space.CurrentID
	w.Space.Vacate(m.currentTime)
	w.CurrentEventID = ""

	s := m.spaceByID[id]
	if s == nil || m.spaceInUse(s) {
		return
	}
	if ev := m.eventByID[s.EventID]; ev != nil && ev.SpaceID == s.ID {
		ev.SpaceID = ""
	}
	s.State = SpaceAvailable
	s.EventID = ""
}

func (m *Manager) spaceInUse(s *Space) bool {
	for _, w := range m.workers {
		if w.State == StateAttendingEvent && w.Space.CurrentID == s.ID && w.CurrentEventID == s.EventID {
			return true
		}
	}
	return false
}

// releaseStaleReservations frees reserved rooms whose event is over or that
// nobody is walking to anymore.
func (m *Manager) releaseStaleReservations() {
	for _, s := range m.spaces {
		if s.State != SpaceAssigned {
			continue
		}
		ev := m.eventByID[s.EventID]
		if ev != nil && m.currentTime < ev.End && m.enRoute(ev.ID) {
			continue
		}
		if ev != nil && ev.SpaceID == s.ID {
			ev.SpaceID = ""
		}
		s.State = SpaceAvailable
		s.EventID = ""
	}
}

func (m *Manager) enRoute(eventID string) bool {
	for _, w := range m.workers {
		if w.State == StateMovingToSpace && w.CurrentEventID == eventID {
			return true
		}
	}
	return false
}

// spaceAt returns the room containing p.
func (m *Manager) spaceAt(p geom.Point) *Space {
	for _, s := range m.spaces {
		if s.Bounds().Contains(p) {
			return s
		}
	}
	return nil
}
