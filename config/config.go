package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"officesim-backend/internal/office"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are set.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port             int           `yaml:"port"`
	RateLimitPerSec  float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds  int           `yaml:"cache_ttl_seconds"`
	CacheTTL         time.Duration `yaml:"-"`
	StreamIntervalMS int           `yaml:"stream_interval_ms"`
	StreamInterval   time.Duration `yaml:"-"`
}

// Command limits used when the configuration leaves them unset.
const (
	DefaultMaxTicksPerRequest = 10000
	DefaultMaxWorkers         = 1000
)

// SimulationConfig holds the office simulation settings.
type SimulationConfig struct {
	Enabled           bool          `yaml:"enabled"`
	TickIntervalMS    int           `yaml:"tick_interval_ms"`
	TickInterval      time.Duration `yaml:"-"` // Ignored by YAML parser
	TimePerTick       float64       `yaml:"time_per_tick"`
	PersistEveryTicks int           `yaml:"persist_every_ticks"`
	LayoutPath        string        `yaml:"layout_path"`

	// Upper bounds for client commands.
	MaxTicksPerRequest int `yaml:"max_ticks_per_request"`
	MaxWorkers         int `yaml:"max_workers"`

	WorkerCount int     `yaml:"worker_count"`
	DeskCount   int     `yaml:"desk_count"`
	SpaceCount  int     `yaml:"space_count"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Managed     bool    `yaml:"managed"`
	Seed        uint64  `yaml:"seed"`

	DayDuration           float64 `yaml:"day_duration"`
	WorkingHours          float64 `yaml:"working_hours"`
	WorkerSpeed           float64 `yaml:"worker_speed"`
	DeskProximity         float64 `yaml:"desk_proximity"`
	MaxDeskSearchAttempts int     `yaml:"max_desk_search_attempts"`
	EventsMin             int     `yaml:"events_min"`
	EventsMax             int     `yaml:"events_max"`
	EventDurationMin      int     `yaml:"event_duration_min_minutes"`
	EventDurationMax      int     `yaml:"event_duration_max_minutes"`
	EventsPerWorkerMin    int     `yaml:"events_per_worker_min"`
	EventsPerWorkerMax    int     `yaml:"events_per_worker_max"`
	DialogDuration        float64 `yaml:"dialog_duration"`
}

// Office returns the engine tuning for these settings. Zero values keep the
// engine defaults.
func (s SimulationConfig) Office() office.Config {
	c := office.DefaultConfig()
	c.Managed = s.Managed
	c.Seed = s.Seed
	setF := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	setI := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setF(&c.DayDuration, s.DayDuration)
	setF(&c.WorkingHours, s.WorkingHours)
	setF(&c.WorkerSpeed, s.WorkerSpeed)
	setF(&c.DeskProximity, s.DeskProximity)
	setF(&c.DialogDuration, s.DialogDuration)
	setI(&c.MaxDeskSearchAttempts, s.MaxDeskSearchAttempts)
	setI(&c.EventsMin, s.EventsMin)
	setI(&c.EventsMax, s.EventsMax)
	setI(&c.EventDurationMinMinutes, s.EventDurationMin)
	setI(&c.EventDurationMaxMinutes, s.EventDurationMax)
	setI(&c.EventsPerWorkerMin, s.EventsPerWorkerMin)
	setI(&c.EventsPerWorkerMax, s.EventsPerWorkerMax)
	return c
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration a file with no settings would load to.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.StreamIntervalMS <= 0 {
		cfg.Server.StreamIntervalMS = 200
	}
	cfg.Server.StreamInterval = time.Duration(cfg.Server.StreamIntervalMS) * time.Millisecond

	if cfg.Simulation.TickIntervalMS <= 0 {
		cfg.Simulation.TickIntervalMS = 33
	}
	cfg.Simulation.TickInterval = time.Duration(cfg.Simulation.TickIntervalMS) * time.Millisecond
	if cfg.Simulation.TimePerTick <= 0 {
		cfg.Simulation.TimePerTick = 0.01
	}
	if cfg.Simulation.PersistEveryTicks <= 0 {
		cfg.Simulation.PersistEveryTicks = 30
	}
	if cfg.Simulation.MaxTicksPerRequest <= 0 {
		cfg.Simulation.MaxTicksPerRequest = DefaultMaxTicksPerRequest
	}
	if cfg.Simulation.MaxWorkers <= 0 {
		cfg.Simulation.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.Simulation.WorkerCount <= 0 {
		cfg.Simulation.WorkerCount = 20
	}
	if cfg.Simulation.DeskCount <= 0 {
		cfg.Simulation.DeskCount = 16
	}
	if cfg.Simulation.SpaceCount <= 0 {
		cfg.Simulation.SpaceCount = 4
	}
	if cfg.Simulation.Width <= 0 {
		cfg.Simulation.Width = 800
	}
	if cfg.Simulation.Height <= 0 {
		cfg.Simulation.Height = 600
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
