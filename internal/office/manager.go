// Package office is the office worker manager: it owns the desks, meeting
// spaces and the day's events, and drives every worker through a per-tick
// state machine. A Manager is single-threaded; callers serialize access.
package office

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"officesim-backend/internal/geom"
	"officesim-backend/internal/naming"
)

// Observer is told about notable transitions. Calls happen synchronously
// inside a tick and must not call back into the Manager.
type Observer interface {
	DeskFreed(deskID string)
	WorkerFrustrated(workerID string)
}

type nopObserver struct{}

func (nopObserver) DeskFreed(string)        {}
func (nopObserver) WorkerFrustrated(string) {}

// Option configures a Manager.
type Option func(*Manager)

// WithObserver registers o for transition callbacks.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// Manager is the simulation driver and the owner of every registry.
type Manager struct {
	cfg      Config
	layout   Layout
	rng      *rand.Rand
	ids      *naming.IDGenerator
	observer Observer

	names  *naming.Pool
	titles *naming.Pool

	desks     []*Desk
	deskByID  map[string]*Desk
	spaces    []*Space
	spaceByID map[string]*Space
	events    []*Event
	eventByID map[string]*Event
	workers   []*Worker
	workerBy  map[string]*Worker

	currentTime float64
	day         int
	managed     bool

	handlers map[PhysicalState]stateHandler
}

// New builds a Manager for layout. The office is empty until
// InitializeOffice is called.
func New(cfg Config, layout Layout, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)

	m := &Manager{
		cfg:      cfg,
		rng:      rand.New(src),
		ids:      naming.NewIDGenerator(src),
		observer: nopObserver{},
		managed:  cfg.Managed,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.names = naming.NewPool(m.rng, naming.WorkerNames)
	m.titles = naming.NewPool(m.rng, naming.EventTitles)
	m.layout = layout.resolve(m.ids, naming.NewPool(m.rng, naming.RoomNames))
	m.handlers = m.stateTable()
	m.buildResources()
	return m, nil
}

// Config returns the tuning the Manager runs with.
func (m *Manager) Config() Config { return m.cfg }

// Layout returns the floor plan with every ID and name resolved.
func (m *Manager) Layout() Layout {
	out := m.layout
	out.Desks = append([]DeskSpec(nil), m.layout.Desks...)
	out.Spaces = append([]SpaceSpec(nil), m.layout.Spaces...)
	return out
}

// CurrentTime returns the simulated time of day.
func (m *Manager) CurrentTime() float64 { return m.currentTime }

// Day returns how many day rollovers have happened since the office was
// initialized.
func (m *Manager) Day() int { return m.day }

// Managed reports whether desks are pre-assigned.
func (m *Manager) Managed() bool { return m.managed }

// WorkerCount returns the number of simulated workers.
func (m *Manager) WorkerCount() int { return len(m.workers) }

// Desk looks up a desk by ID. The result is a copy.
func (m *Manager) Desk(id string) (Desk, bool) {
	d, ok := m.deskByID[id]
	if !ok {
		return Desk{}, false
	}
	return *d, true
}

// Space looks up a meeting space by ID. The result is a copy.
func (m *Manager) Space(id string) (Space, bool) {
	s, ok := m.spaceByID[id]
	if !ok {
		return Space{}, false
	}
	return *s, true
}

// Worker looks up a worker by ID. The result is a copy.
func (m *Manager) Worker(id string) (Worker, bool) {
	w, ok := m.workerBy[id]
	if !ok {
		return Worker{}, false
	}
	out := *w
	out.EventIDs = append([]string(nil), w.EventIDs...)
	out.skipped = nil
	return out, true
}

// InitializeOffice throws away all workers and occupancy and starts day zero
// with workerCount fresh workers. In managed mode each worker, up to the
// number of desks, is given a desk of their own.
func (m *Manager) InitializeOffice(workerCount int) error {
	if workerCount < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, workerCount)
	}

	m.currentTime = 0
	m.day = 0
	m.buildResources()

	m.names.Reset()
	m.workers = make([]*Worker, 0, workerCount)
	m.workerBy = make(map[string]*Worker, workerCount)
	for i := 0; i < workerCount; i++ {
		w := &Worker{
			ID:   m.ids.New("worker"),
			Name: m.names.Next(),
		}
		m.workers = append(m.workers, w)
		m.workerBy[w.ID] = w
	}

	if m.managed {
		perm := m.rng.Perm(len(m.desks))
		for i, w := range m.workers {
			if i >= len(perm) {
				break
			}
			desk := m.desks[perm[i]]
			w.AssignedDeskID = desk.ID
			desk.State = DeskAssigned
			desk.OccupiedBy = w.ID
		}
	}

	m.startDay()
	return nil
}

// ResetDay rolls over to the next day. Workers keep their identity and, in
// managed mode, their desk assignment; everything else starts over.
func (m *Manager) ResetDay() {
	m.day++
	m.currentTime = 0

	owners := make(map[string]string, len(m.workers))
	if m.managed {
		for _, w := range m.workers {
			if w.AssignedDeskID != "" {
				owners[w.AssignedDeskID] = w.ID
			}
		}
	}
	for _, d := range m.desks {
		if owner, ok := owners[d.ID]; ok {
			d.State = DeskAssigned
			d.OccupiedBy = owner
		} else {
			d.State = DeskAvailable
			d.OccupiedBy = ""
		}
	}
	for _, s := range m.spaces {
		s.State = SpaceAvailable
		s.EventID = ""
	}

	m.startDay()
}

// SetManagedMode switches between managed and chaotic offices. A switch
// re-initializes the whole office with the same number of workers.
func (m *Manager) SetManagedMode(managed bool) {
	if managed == m.managed {
		return
	}
	m.managed = managed
	// a non-negative count cannot fail
	_ = m.InitializeOffice(len(m.workers))
}

// SetLayout replaces the floor plan and re-initializes the office with the
// same number of workers.
func (m *Manager) SetLayout(layout Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	m.layout = layout.resolve(m.ids, naming.NewPool(m.rng, naming.RoomNames))
	return m.InitializeOffice(len(m.workers))
}

// SetCurrentTime moves the simulated clock. It does not tick workers.
func (m *Manager) SetCurrentTime(t float64) {
	m.currentTime = t
}

// UpdateWorkers advances every worker by one tick, in registry order. Any
// contested resource goes to the worker evaluated first.
func (m *Manager) UpdateWorkers() {
	m.releaseStaleReservations()
	for _, w := range m.workers {
		m.updateWorker(w)
	}
}

// Step advances the clock by dt and ticks the workers, or rolls over to the
// next day when the clock reaches the end of the day. It reports whether a
// rollover happened.
func (m *Manager) Step(dt float64) bool {
	next := m.currentTime + dt
	if next >= m.cfg.DayDuration {
		m.ResetDay()
		return true
	}
	m.SetCurrentTime(next)
	m.UpdateWorkers()
	return false
}

// ForceEvent sends an idle worker to their next event right away, ignoring
// the lookahead window.
func (m *Manager) ForceEvent(workerID string) error {
	w, ok := m.workerBy[workerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWorker, workerID)
	}
	if w.State != StateWorking && w.State != StateWandering {
		return fmt.Errorf("%w: %s is %s", ErrWorkerBusy, w.Name, w.State)
	}
	ev := m.nextEvent(w)
	if ev == nil {
		return fmt.Errorf("%w for %s", ErrNoUpcomingEvent, w.Name)
	}
	m.departForEvent(w, ev)
	return nil
}

func (m *Manager) buildResources() {
	m.desks = make([]*Desk, 0, len(m.layout.Desks))
	m.deskByID = make(map[string]*Desk, len(m.layout.Desks))
	for _, spec := range m.layout.Desks {
		d := &Desk{
			ID:     spec.ID,
			Name:   spec.Name,
			Center: spec.Center,
			Width:  spec.Width,
			Height: spec.Height,
			State:  DeskAvailable,
		}
		m.desks = append(m.desks, d)
		m.deskByID[d.ID] = d
	}

	m.spaces = make([]*Space, 0, len(m.layout.Spaces))
	m.spaceByID = make(map[string]*Space, len(m.layout.Spaces))
	for _, spec := range m.layout.Spaces {
		s := &Space{
			ID:     spec.ID,
			Name:   spec.Name,
			Center: spec.Center,
			Width:  spec.Width,
			Height: spec.Height,
			State:  SpaceAvailable,
		}
		m.spaces = append(m.spaces, s)
		m.spaceByID[s.ID] = s
	}
}

// startDay regenerates the schedule and sends every worker back to the
// entrance.
func (m *Manager) startDay() {
	m.generateEvents()
	for _, w := range m.workers {
		m.resetWorker(w)
	}
	m.assignEvents()
}

func (m *Manager) resetWorker(w *Worker) {
	w.Desk = Occupancy{}
	w.Space = Occupancy{}
	w.Mood = MoodHappy
	w.State = StateArriving
	w.EventIDs = nil
	w.NextEventTime = nil
	w.CurrentEventID = ""
	w.Dialog = nil
	w.DeskSearchAttempts = 0
	w.skipped = make(map[string]bool)

	door := m.layout.Entrance
	w.Position = geom.Pt(door.Min.X+m.rng.Float64()*door.Dx(), door.Max.Y)
	w.setDestination(geom.RandomPointIn(m.rng, door))
}

func (m *Manager) updateWorker(w *Worker) {
	m.expireDialog(w)
	m.refreshNextEventTime(w)

	if h := m.handlers[w.State]; h.decide != nil {
		h.decide(w)
	}

	if w.Destination == nil {
		return
	}
	pos, arrived := geom.MoveToward(w.Position, *w.Destination, m.cfg.WorkerSpeed)
	w.Position = pos
	if !arrived {
		return
	}
	w.Destination = nil
	if h := m.handlers[w.State]; h.arrive != nil {
		h.arrive(w)
	}
}

func (m *Manager) chance(p float64) bool {
	return p > 0 && m.rng.Float64() < p
}

func (m *Manager) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + m.rng.IntN(hi-lo+1)
}

func (m *Manager) setMood(w *Worker, mood Mood) {
	if mood == MoodFrustrated && w.Mood != MoodFrustrated {
		m.observer.WorkerFrustrated(w.ID)
	}
	w.Mood = mood
}

func (m *Manager) wander(w *Worker) {
	w.State = StateWandering
	w.setDestination(geom.RandomPointIn(m.rng, m.layout.Floor().Inflate(-floorMargin)))
}

func sortEventIDs(ids []string, byID map[string]*Event) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Start < b.Start
	})
}
