package office

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the engine is built with unusable tuning.
	ErrInvalidConfig = errors.New("invalid office config")
	// ErrInvalidLayout is returned for floor plans the engine cannot place workers in.
	ErrInvalidLayout = errors.New("invalid office layout")
	// ErrUnknownWorker is returned by commands addressed to a worker ID that does not exist.
	ErrUnknownWorker = errors.New("unknown worker")
	// ErrWorkerBusy is returned when a command needs an idle worker.
	ErrWorkerBusy = errors.New("worker is busy")
	// ErrNoUpcomingEvent is returned when a worker has nothing left on the schedule.
	ErrNoUpcomingEvent = errors.New("no upcoming event")
)

// Config tunes the simulation. Times are in simulation units; a day lasts
// DayDuration units and models WorkingHours hours of office time.
type Config struct {
	DayDuration  float64
	WorkingHours float64

	WorkerSpeed           float64
	DeskProximity         float64
	MaxDeskSearchAttempts int

	EventsMin                 int
	EventsMax                 int
	EventDurationMinMinutes   int
	EventDurationMaxMinutes   int
	EventMinSpacingMinutes    int
	EventEarliestStartMinutes int
	EventsPerWorkerMin        int
	EventsPerWorkerMax        int
	LookaheadMinMinutes       int
	LookaheadMaxMinutes       int

	DialogDuration float64

	// Per-tick probabilities that keep idle workers visibly alive.
	IdleDialogChance      float64
	WanderMoodChance      float64
	WanderDialogChance    float64
	WanderRetryChance     float64
	FrustratedRetryChance float64

	Managed bool
	Seed    uint64
}

// DefaultConfig returns the stock tuning: a 60 unit day over a 9 hour shift.
func DefaultConfig() Config {
	return Config{
		DayDuration:               60,
		WorkingHours:              9,
		WorkerSpeed:               2.5,
		DeskProximity:             15,
		MaxDeskSearchAttempts:     3,
		EventsMin:                 5,
		EventsMax:                 10,
		EventDurationMinMinutes:   30,
		EventDurationMaxMinutes:   60,
		EventMinSpacingMinutes:    20,
		EventEarliestStartMinutes: 15,
		EventsPerWorkerMin:        1,
		EventsPerWorkerMax:        3,
		LookaheadMinMinutes:       1,
		LookaheadMaxMinutes:       10,
		DialogDuration:            1.5,
		IdleDialogChance:          0.002,
		WanderMoodChance:          0.02,
		WanderDialogChance:        0.03,
		WanderRetryChance:         0.5,
		FrustratedRetryChance:     0.01,
	}
}

// Validate checks the config for values the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.DayDuration <= 0:
		return fmt.Errorf("%w: day duration must be positive, got %v", ErrInvalidConfig, c.DayDuration)
	case c.WorkingHours <= 0:
		return fmt.Errorf("%w: working hours must be positive, got %v", ErrInvalidConfig, c.WorkingHours)
	case c.WorkerSpeed <= 0:
		return fmt.Errorf("%w: worker speed must be positive, got %v", ErrInvalidConfig, c.WorkerSpeed)
	case c.DeskProximity <= 0:
		return fmt.Errorf("%w: desk proximity must be positive, got %v", ErrInvalidConfig, c.DeskProximity)
	case c.MaxDeskSearchAttempts < 1:
		return fmt.Errorf("%w: max desk search attempts must be at least 1", ErrInvalidConfig)
	case c.EventsMin < 0 || c.EventsMax < c.EventsMin:
		return fmt.Errorf("%w: events range [%d, %d]", ErrInvalidConfig, c.EventsMin, c.EventsMax)
	case c.EventDurationMinMinutes < 1 || c.EventDurationMaxMinutes < c.EventDurationMinMinutes:
		return fmt.Errorf("%w: event duration range [%d, %d]", ErrInvalidConfig, c.EventDurationMinMinutes, c.EventDurationMaxMinutes)
	case c.EventsPerWorkerMin < 0 || c.EventsPerWorkerMax < c.EventsPerWorkerMin:
		return fmt.Errorf("%w: events per worker range [%d, %d]", ErrInvalidConfig, c.EventsPerWorkerMin, c.EventsPerWorkerMax)
	case c.LookaheadMinMinutes < 0 || c.LookaheadMaxMinutes < c.LookaheadMinMinutes:
		return fmt.Errorf("%w: lookahead range [%d, %d]", ErrInvalidConfig, c.LookaheadMinMinutes, c.LookaheadMaxMinutes)
	case c.DialogDuration < 0:
		return fmt.Errorf("%w: dialog duration must not be negative", ErrInvalidConfig)
	}
	return nil
}

// MinutesToUnits converts simulated office minutes to simulation time units.
func (c Config) MinutesToUnits(minutes float64) float64 {
	return minutes * c.DayDuration / (c.WorkingHours * 60)
}
