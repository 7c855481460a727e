package office

import "officesim-backend/internal/geom"

// DeskView is the read-only form of a desk. OccupantName is looked up from
// the worker registry when the snapshot is taken.
type DeskView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Center       geom.Point `json:"center"`
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	State        DeskState  `json:"state"`
	OccupantID   string     `json:"occupant_id,omitempty"`
	OccupantName string     `json:"occupant_name,omitempty"`
}

// SpaceView is the read-only form of a meeting space. EventTitle is filled
// in from the schedule.
type SpaceView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Center     geom.Point `json:"center"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	State      SpaceState `json:"state"`
	EventID    string     `json:"event_id,omitempty"`
	EventTitle string     `json:"event_title,omitempty"`
}

// EventView is the read-only form of a scheduled event.
type EventView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Start     float64  `json:"start"`
	End       float64  `json:"end"`
	Attendees []string `json:"attendees"`
	SpaceID   string   `json:"space_id,omitempty"`
}

// WorkerView is the read-only form of a worker. Slices and pointers are
// copies, so callers may keep them across ticks.
type WorkerView struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Position           geom.Point    `json:"position"`
	Destination        *geom.Point   `json:"destination,omitempty"`
	State              PhysicalState `json:"state"`
	Mood               Mood          `json:"mood"`
	AssignedDeskID     string        `json:"assigned_desk_id,omitempty"`
	Desk               Occupancy     `json:"desk"`
	Space              Occupancy     `json:"space"`
	EventIDs           []string      `json:"event_ids"`
	CurrentEventID     string        `json:"current_event_id,omitempty"`
	NextEventTime      *float64      `json:"next_event_time,omitempty"`
	Dialog             *Dialog       `json:"dialog,omitempty"`
	DeskSearchAttempts int           `json:"desk_search_attempts"`
}

// Snapshot is a consistent, detached copy of the office between two ticks.
type Snapshot struct {
	Time        float64      `json:"time"`
	Day         int          `json:"day"`
	Managed     bool         `json:"managed"`
	DayDuration float64      `json:"day_duration"`
	Desks       []DeskView   `json:"desks"`
	Spaces      []SpaceView  `json:"spaces"`
	Events      []EventView  `json:"events"`
	Workers     []WorkerView `json:"workers"`
}

// Snapshot copies the current state for readers. Dialogs that have run out
// at the current time are left out even if no tick has cleared them yet.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Time:        m.currentTime,
		Day:         m.day,
		Managed:     m.managed,
		DayDuration: m.cfg.DayDuration,
		Desks:       make([]DeskView, 0, len(m.desks)),
		Spaces:      make([]SpaceView, 0, len(m.spaces)),
		Events:      make([]EventView, 0, len(m.events)),
		Workers:     make([]WorkerView, 0, len(m.workers)),
	}

	for _, d := range m.desks {
		v := DeskView{
			ID:         d.ID,
			Name:       d.Name,
			Center:     d.Center,
			Width:      d.Width,
			Height:     d.Height,
			State:      d.State,
			OccupantID: d.OccupiedBy,
		}
		if w := m.workerBy[d.OccupiedBy]; w != nil {
			v.OccupantName = w.Name
		}
		s.Desks = append(s.Desks, v)
	}

	for _, sp := range m.spaces {
		v := SpaceView{
			ID:      sp.ID,
			Name:    sp.Name,
			Center:  sp.Center,
			Width:   sp.Width,
			Height:  sp.Height,
			State:   sp.State,
			EventID: sp.EventID,
		}
		if ev := m.eventByID[sp.EventID]; ev != nil {
			v.EventTitle = ev.Title
		}
		s.Spaces = append(s.Spaces, v)
	}

	for _, ev := range m.events {
		s.Events = append(s.Events, EventView{
			ID:        ev.ID,
			Title:     ev.Title,
			Start:     ev.Start,
			End:       ev.End,
			Attendees: append([]string{}, ev.Attendees...),
			SpaceID:   ev.SpaceID,
		})
	}

	for _, w := range m.workers {
		v := WorkerView{
			ID:                 w.ID,
			Name:               w.Name,
			Position:           w.Position,
			State:              w.State,
			Mood:               w.Mood,
			AssignedDeskID:     w.AssignedDeskID,
			Desk:               w.Desk,
			Space:              w.Space,
			EventIDs:           append([]string{}, w.EventIDs...),
			CurrentEventID:     w.CurrentEventID,
			DeskSearchAttempts: w.DeskSearchAttempts,
		}
		if w.Destination != nil {
			dest := *w.Destination
			v.Destination = &dest
		}
		if w.NextEventTime != nil {
			t := *w.NextEventTime
			v.NextEventTime = &t
		}
		if w.Dialog != nil && !w.Dialog.Expired(m.currentTime) {
			dlg := *w.Dialog
			v.Dialog = &dlg
		}
		s.Workers = append(s.Workers, v)
	}
	return s
}

// Worker finds a worker in the snapshot by ID.
func (s Snapshot) Worker(id string) (WorkerView, bool) {
	for _, w := range s.Workers {
		if w.ID == id {
			return w, true
		}
	}
	return WorkerView{}, false
}

// Stats summarizes a snapshot.
type Stats struct {
	Time           float64               `json:"time"`
	Day            int                   `json:"day"`
	Managed        bool                  `json:"managed"`
	Desks          map[DeskState]int     `json:"desks"`
	Spaces         map[SpaceState]int    `json:"spaces"`
	Workers        map[PhysicalState]int `json:"workers"`
	Moods          map[Mood]int          `json:"moods"`
	AtAssignedDesk int                   `json:"at_assigned_desk"`
}

// Stats counts desks, spaces and workers by state.
func (s Snapshot) Stats() Stats {
	st := Stats{
		Time:    s.Time,
		Day:     s.Day,
		Managed: s.Managed,
		Desks:   map[DeskState]int{DeskAvailable: 0, DeskAssigned: 0, DeskOccupied: 0},
		Spaces:  map[SpaceState]int{SpaceAvailable: 0, SpaceAssigned: 0, SpaceOccupied: 0},
		Workers: make(map[PhysicalState]int),
		Moods:   map[Mood]int{MoodHappy: 0, MoodConfused: 0, MoodFrustrated: 0},
	}
	for _, d := range s.Desks {
		st.Desks[d.State]++
	}
	for _, sp := range s.Spaces {
		st.Spaces[sp.State]++
	}
	for _, w := range s.Workers {
		st.Workers[w.State]++
		st.Moods[w.Mood]++
		if w.AssignedDeskID != "" && w.Desk.CurrentID == w.AssignedDeskID {
			st.AtAssignedDesk++
		}
	}
	return st
}
