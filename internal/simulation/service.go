// Package simulation runs the office engine against the wall clock. One
// goroutine owns the engine; every other caller goes through Do.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"officesim-backend/config"
	"officesim-backend/internal/layout"
	"officesim-backend/internal/office"
	"officesim-backend/internal/store"
)

// ErrInvalidCommand is returned for command arguments the engine would not
// accept.
var ErrInvalidCommand = errors.New("invalid command")

const defaultTickInterval = 33 * time.Millisecond

// Dispatcher queues "desk is free" notifications. It must not block.
type Dispatcher interface {
	TryDispatch(deskID string) bool
}

type command struct {
	fn   func(*office.Manager) error
	done chan error
}

// Service owns an office.Manager, ticks it, publishes snapshots and persists
// occupancy.
type Service struct {
	cfg   config.SimulationConfig
	store store.Store
	pool  Dispatcher

	office   *office.Manager
	commands chan command

	snapshot atomic.Pointer[office.Snapshot]
	storeDay atomic.Int64

	// owned by the loop goroutine
	ticks      uint64
	engineDay  int
	dayChanged bool

	mu         sync.Mutex
	resetHooks []func()
}

// NewService builds the office from the layout file, or a generated floor
// plan when none is configured, and initializes it with the configured
// number of workers. st and pool may be nil.
func NewService(cfg config.SimulationConfig, st store.Store, pool Dispatcher) (*Service, error) {
	if cfg.WorkerCount > maxWorkers(cfg) {
		return nil, fmt.Errorf("%w: worker count %d exceeds the limit of %d", ErrInvalidCommand, cfg.WorkerCount, maxWorkers(cfg))
	}
	l, err := initialLayout(cfg)
	if err != nil {
		return nil, err
	}

	m, err := office.New(cfg.Office(), l, office.WithObserver(logObserver{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create office: %w", err)
	}
	if err := m.InitializeOffice(cfg.WorkerCount); err != nil {
		return nil, fmt.Errorf("failed to initialize office: %w", err)
	}

	s := &Service{
		cfg:       cfg,
		store:     st,
		pool:      pool,
		office:    m,
		commands:  make(chan command, 64),
		engineDay: m.Day(),
	}
	s.publish()
	return s, nil
}

func maxWorkers(cfg config.SimulationConfig) int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	return config.DefaultMaxWorkers
}

func maxTicks(cfg config.SimulationConfig) int {
	if cfg.MaxTicksPerRequest > 0 {
		return cfg.MaxTicksPerRequest
	}
	return config.DefaultMaxTicksPerRequest
}

func initialLayout(cfg config.SimulationConfig) (office.Layout, error) {
	if cfg.LayoutPath == "" {
		return office.GenerateLayout(cfg.Width, cfg.Height, cfg.DeskCount, cfg.SpaceCount), nil
	}
	l, err := layout.Load(cfg.LayoutPath)
	if err != nil {
		return office.Layout{}, fmt.Errorf("failed to load layout %s: %w", cfg.LayoutPath, err)
	}
	log.Printf("Loaded layout from %s: %d desks, %d spaces", cfg.LayoutPath, len(l.Desks), len(l.Spaces))
	return l, nil
}

// OnReset registers fn to run on the loop goroutine whenever the office
// starts a new day or is re-initialized.
func (s *Service) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetHooks = append(s.resetHooks, fn)
}

// Run serves commands and, when the simulation is enabled, advances the
// office every tick interval. It returns when ctx is done.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting simulation service...")

	if s.store != nil {
		if err := s.store.UpsertLayout(ctx, s.office.Layout()); err != nil {
			log.Printf("Error saving layout: %v", err)
		}
	}
	s.persist(ctx)

	var tick <-chan time.Time
	if s.cfg.Enabled {
		interval := s.cfg.TickInterval
		if interval <= 0 {
			interval = defaultTickInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	} else {
		log.Println("Simulation clock is disabled. Serving commands only.")
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Simulation service shutting down.")
			return
		case cmd := <-s.commands:
			cmd.done <- s.apply(ctx, cmd.fn)
		case <-tick:
			s.step(ctx)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it. The snapshot is
// republished after fn returns, whether or not it failed.
func (s *Service) Do(ctx context.Context, fn func(*office.Manager) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the office as of the last completed tick or command.
func (s *Service) Snapshot() office.Snapshot {
	return *s.snapshot.Load()
}

// StoreDay is the day number occupancy is persisted under. It increases on
// every rollover and re-initialization.
func (s *Service) StoreDay() int {
	return int(s.storeDay.Load())
}

// Store returns the persistence layer, or nil.
func (s *Service) Store() store.Store {
	return s.store
}

// Initialize replaces the workforce with workerCount fresh workers.
func (s *Service) Initialize(ctx context.Context, workerCount int) error {
	if limit := maxWorkers(s.cfg); workerCount > limit {
		return fmt.Errorf("%w: worker count %d exceeds the limit of %d", ErrInvalidCommand, workerCount, limit)
	}
	return s.Do(ctx, func(m *office.Manager) error {
		if err := m.InitializeOffice(workerCount); err != nil {
			return err
		}
		s.dayChanged = true
		return nil
	})
}

// ResetDay starts the next day.
func (s *Service) ResetDay(ctx context.Context) error {
	return s.Do(ctx, func(m *office.Manager) error {
		m.ResetDay()
		return nil
	})
}

// SetManaged switches the office mode. Switching re-initializes the office.
func (s *Service) SetManaged(ctx context.Context, managed bool) error {
	return s.Do(ctx, func(m *office.Manager) error {
		if m.Managed() == managed {
			return nil
		}
		m.SetManagedMode(managed)
		s.dayChanged = true
		return nil
	})
}

// SetTime moves the simulated clock within the current day.
func (s *Service) SetTime(ctx context.Context, t float64) error {
	return s.Do(ctx, func(m *office.Manager) error {
		if t < 0 || t >= m.Config().DayDuration {
			return fmt.Errorf("%w: time %.2f is outside [0, %.2f)", ErrInvalidCommand, t, m.Config().DayDuration)
		}
		m.SetCurrentTime(t)
		return nil
	})
}

// Tick runs count worker updates without moving the clock, then persists.
// A cancelled ctx stops the batch early; the updates already run are kept.
func (s *Service) Tick(ctx context.Context, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: tick count must be positive, got %d", ErrInvalidCommand, count)
	}
	if limit := maxTicks(s.cfg); count > limit {
		return fmt.Errorf("%w: tick count %d exceeds the limit of %d", ErrInvalidCommand, count, limit)
	}
	return s.Do(ctx, func(m *office.Manager) error {
		var err error
		done := 0
		for ; done < count; done++ {
			if err = ctx.Err(); err != nil {
				break
			}
			m.UpdateWorkers()
		}
		s.ticks += uint64(done)
		s.publish()
		s.persist(context.WithoutCancel(ctx))
		return err
	})
}

// ForceEvent sends a worker to their next event.
func (s *Service) ForceEvent(ctx context.Context, workerID string) error {
	return s.Do(ctx, func(m *office.Manager) error {
		return m.ForceEvent(workerID)
	})
}

// Layout returns the floor plan in use, with generated IDs and names filled in.
func (s *Service) Layout(ctx context.Context) (office.Layout, error) {
	var l office.Layout
	err := s.Do(ctx, func(m *office.Manager) error {
		l = m.Layout()
		return nil
	})
	return l, err
}

// SetLayout replaces the floor plan, re-initializes the office and saves
// the new desks and spaces.
func (s *Service) SetLayout(ctx context.Context, l office.Layout) error {
	return s.Do(ctx, func(m *office.Manager) error {
		if err := m.SetLayout(l); err != nil {
			return err
		}
		s.dayChanged = true
		if s.store == nil {
			return nil
		}
		if err := s.store.UpsertLayout(ctx, m.Layout()); err != nil {
			return fmt.Errorf("failed to save layout: %w", err)
		}
		return nil
	})
}

func (s *Service) step(ctx context.Context) {
	_ = s.apply(ctx, func(m *office.Manager) error {
		m.Step(s.cfg.TimePerTick)
		return nil
	})
	s.ticks++
	if every := uint64(s.cfg.PersistEveryTicks); every > 0 && s.ticks%every == 0 {
		s.persist(ctx)
	}
}

func (s *Service) apply(ctx context.Context, fn func(*office.Manager) error) error {
	err := fn(s.office)

	rolled := s.dayChanged || s.office.Day() != s.engineDay
	s.dayChanged = false
	s.engineDay = s.office.Day()
	s.publish()

	if rolled {
		s.rollover(ctx)
	}
	return err
}

func (s *Service) rollover(ctx context.Context) {
	day := int(s.storeDay.Add(1))
	log.Printf("Day %d started (office day %d, %d workers)", day, s.engineDay, s.office.WorkerCount())

	if s.store != nil {
		if err := s.store.ResetDay(ctx, day); err != nil {
			log.Printf("Error purging occupancy before day %d: %v", day, err)
		}
	}

	s.mu.Lock()
	hooks := append([]func(){}, s.resetHooks...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	s.persist(ctx)
}

func (s *Service) publish() {
	snap := s.office.Snapshot()
	s.snapshot.Store(&snap)
}

func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	snap := s.Snapshot()
	clock := store.Clock{Day: s.StoreDay(), SimTime: snap.Time}
	freed, err := s.store.UpdateOccupancy(ctx, time.Now().UTC(), clock, store.ObservationsFromSnapshot(snap))
	if err != nil {
		log.Printf("Error processing occupancy changes: %v", err)
		return
	}
	s.dispatch(freed)
}

func (s *Service) dispatch(deskIDs []string) {
	if s.pool == nil || len(deskIDs) == 0 {
		return
	}
	log.Printf("Dispatching notifications for %d desks", len(deskIDs))
	for _, id := range deskIDs {
		if !s.pool.TryDispatch(id) {
			log.Printf("Notification queue full, dropping desk %s", id)
		}
	}
}

type logObserver struct{}

func (logObserver) DeskFreed(deskID string) {
	log.Printf("Desk %s freed", deskID)
}

func (logObserver) WorkerFrustrated(workerID string) {
	log.Printf("Worker %s is frustrated", workerID)
}
