package office

import "officesim-backend/internal/geom"

// DeskState is the occupancy state of a desk.
type DeskState string

const (
	DeskAvailable DeskState = "AVAILABLE"
	DeskAssigned  DeskState = "ASSIGNED"
	DeskOccupied  DeskState = "OCCUPIED"
)

// SpaceState is the occupancy state of a meeting space.
type SpaceState string

const (
	SpaceAvailable SpaceState = "AVAILABLE"
	SpaceOccupied  SpaceState = "OCCUPIED"
	// SpaceAssigned marks a space reserved for an event by an attendee who is
	// still on the way. Only managed offices reserve.
	SpaceAssigned SpaceState = "ASSIGNED"
)

// Mood is a worker's mental state.
type Mood string

const (
	MoodHappy      Mood = "HAPPY"
	MoodFrustrated Mood = "FRUSTRATED"
	MoodConfused   Mood = "CONFUSED"
)

// PhysicalState is the primary state-machine variable of a worker.
type PhysicalState string

const (
	StateArriving       PhysicalState = "ARRIVING"
	StateWandering      PhysicalState = "WANDERING"
	StateMovingToDesk   PhysicalState = "MOVING_TO_DESK"
	StateMovingToSpace  PhysicalState = "MOVING_TO_SPACE"
	StateWorking        PhysicalState = "WORKING"
	StateAttendingEvent PhysicalState = "ATTENDING_EVENT"
)

// Desk is a single workstation. OccupiedBy is the ID of the worker sitting
// at (or, for an ASSIGNED desk, owning) the desk; it is never a pointer.
type Desk struct {
	ID         string
	Name       string
	Center     geom.Point
	Width      float64
	Height     float64
	State      DeskState
	OccupiedBy string
}

// Destination is the point workers steer toward to sit at the desk.
func (d *Desk) Destination() geom.Point {
	return d.Center
}

// Bounds returns the desk footprint.
func (d *Desk) Bounds() geom.Rect {
	return geom.RectFromCenter(d.Center, d.Width, d.Height)
}

// Space is a meeting room. It is occupied by an event, not by a worker.
type Space struct {
	ID      string
	Name    string
	Center  geom.Point
	Width   float64
	Height  float64
	State   SpaceState
	EventID string
}

// Destination is the center of the room.
func (s *Space) Destination() geom.Point {
	return s.Center
}

// Bounds returns the room footprint.
func (s *Space) Bounds() geom.Rect {
	return geom.RectFromCenter(s.Center, s.Width, s.Height)
}

// Event is a meeting on today's schedule. SpaceID is bound lazily by the
// first attendee to claim a room.
type Event struct {
	ID        string
	Title     string
	Start     float64
	End       float64
	Attendees []string
	SpaceID   string
}

// Spans reports whether t falls in [Start, End).
func (e *Event) Spans(t float64) bool {
	return t >= e.Start && t < e.End
}

// Occupancy is the minimal occupancy history kept per worker for one kind
// of resource: the current holding and the one before it.
type Occupancy struct {
	LastID      string  `json:"last_id,omitempty"`
	LastTime    float64 `json:"last_time,omitempty"`
	CurrentID   string  `json:"current_id,omitempty"`
	CurrentTime float64 `json:"current_time,omitempty"`
}

// Occupy records that the resource id was taken at t.
func (o *Occupancy) Occupy(id string, t float64) {
	o.CurrentID = id
	o.CurrentTime = t
}

// Vacate moves the current holding to last, stamping the time it was left.
func (o *Occupancy) Vacate(t float64) {
	if o.CurrentID == "" {
		return
	}
	o.LastID = o.CurrentID
	o.LastTime = t
	o.CurrentID = ""
	o.CurrentTime = 0
}

// Dialog is a transient speech bubble.
type Dialog struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Expired reports whether the dialog should no longer be shown at now.
func (d *Dialog) Expired(now float64) bool {
	return now-d.Start > d.Duration
}

// Worker is a simulated person.
type Worker struct {
	ID             string
	Name           string
	Position       geom.Point
	Destination    *geom.Point
	AssignedDeskID string

	Desk  Occupancy
	Space Occupancy

	Mood  Mood
	State PhysicalState

	EventIDs      []string
	NextEventTime *float64
	// CurrentEventID is the event the worker is heading to or attending.
	CurrentEventID string

	Dialog             *Dialog
	DeskSearchAttempts int

	skipped map[string]bool
}

// Moving reports whether the worker has somewhere to go.
func (w *Worker) Moving() bool {
	return w.Destination != nil
}

func (w *Worker) setDestination(p geom.Point) {
	w.Destination = &p
}
