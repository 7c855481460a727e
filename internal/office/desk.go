package office

import (
	"math"

	"officesim-backend/internal/geom"
)

// findDeskForWorker is the desk acquisition algorithm. Candidates are the
// free desks plus the worker's own reserved desk.
func (m *Manager) findDeskForWorker(w *Worker) {
	if w.DeskSearchAttempts >= m.cfg.MaxDeskSearchAttempts {
		m.setMood(w, MoodFrustrated)
		m.wander(w)
		m.say(w, pick(m.rng, frustratedLines))
		return
	}

	var (
		candidates []*Desk
		own        *Desk
	)
	for _, d := range m.desks {
		switch {
		case d.State == DeskAvailable:
			candidates = append(candidates, d)
		case d.State == DeskAssigned && d.OccupiedBy == w.ID:
			candidates = append(candidates, d)
		default:
			continue
		}
		if d.ID == w.AssignedDeskID {
			own = d
		}
	}

	if len(candidates) == 0 {
		w.DeskSearchAttempts++
		m.wander(w)
		if w.DeskSearchAttempts >= m.cfg.MaxDeskSearchAttempts {
			m.setMood(w, MoodFrustrated)
			m.say(w, pick(m.rng, frustratedLines))
		} else {
			m.setMood(w, MoodConfused)
			m.say(w, pick(m.rng, noDeskLines))
		}
		return
	}

	target := own
	if !m.managed || target == nil {
		target = candidates[m.rng.IntN(len(candidates))]
	}
	w.State = StateMovingToDesk
	w.setDestination(target.Destination())
	w.DeskSearchAttempts = 0
}

func (m *Manager) handleDeskArrival(w *Worker) {
	d := m.deskNear(w.Position)
	if d == nil {
		m.wander(w)
		return
	}

	switch {
	case d.State == DeskAvailable:
		d.State = DeskOccupied
		d.OccupiedBy = w.ID
	case d.State == DeskAssigned && d.OccupiedBy == w.ID:
	default:
		m.setMood(w, MoodConfused)
		m.say(w, pick(m.rng, deskTakenLines))
		m.findDeskForWorker(w)
		return
	}

	w.Desk.Occupy(d.ID, m.currentTime)
	w.State = StateWorking
	w.DeskSearchAttempts = 0
	m.setMood(w, MoodHappy)
	m.say(w, pick(m.rng, happyLines))
}

// vacateDesk gives up the worker's current desk. An owner's desk goes back
// to being reserved in a managed office; anything else becomes free.
func (m *Manager) vacateDesk(w *Worker) {
	id := w.Desk.CurrentID
	if id == "" {
		return
	}
	w.Desk.Vacate(m.currentTime)

	d := m.deskByID[id]
	if d == nil || d.OccupiedBy != w.ID {
		return
	}
	if m.managed && w.AssignedDeskID == d.ID {
		d.State = DeskAssigned
		return
	}
	d.State = DeskAvailable
	d.OccupiedBy = ""
	m.observer.DeskFreed(d.ID)
}

// returnToLastDesk heads back to the desk the worker last sat at, or starts
// a new search when it is gone or taken.
func (m *Manager) returnToLastDesk(w *Worker) {
	d := m.deskByID[w.Desk.LastID]
	if d == nil {
		m.findDeskForWorker(w)
		return
	}
	if d.State == DeskAvailable || (d.State == DeskAssigned && d.OccupiedBy == w.ID) {
		w.State = StateMovingToDesk
		w.setDestination(d.Destination())
		return
	}

	m.setMood(w, MoodConfused)
	m.say(w, pick(m.rng, stolenDeskLines))
	w.DeskSearchAttempts++
	m.findDeskForWorker(w)
}

// deskNear returns the closest desk within the proximity threshold of p.
func (m *Manager) deskNear(p geom.Point) *Desk {
	var (
		best *Desk
		dist = math.Inf(1)
	)
	for _, d := range m.desks {
		if dd := geom.Distance(p, d.Destination()); dd <= m.cfg.DeskProximity && dd < dist {
			best, dist = d, dd
		}
	}
	return best
}
