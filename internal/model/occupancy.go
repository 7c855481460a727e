package model

import (
	"time"
)

// Resource kinds recorded in the occupancy tables.
const (
	KindDesk  = "desk"
	KindSpace = "space"
)

// OccupancyOpen is the current holding of a desk or space that is not
// available (hot table). A free resource has no row.
type OccupancyOpen struct {
	ResourceID string    `gorm:"primaryKey;size:64" json:"resource_id"`
	Kind       string    `gorm:"size:16;not null" json:"kind"`
	State      string    `gorm:"size:16;not null" json:"state"`
	OccupantID string    `gorm:"size:64" json:"occupant_id,omitempty"`
	EventID    string    `gorm:"size:64" json:"event_id,omitempty"`
	Day        int       `gorm:"not null;index" json:"day"`
	SimTime    float64   `gorm:"not null" json:"sim_time"`
	ObservedAt time.Time `gorm:"not null" json:"observed_at"`
}

// OccupancyHistory is a finished holding of a resource (cold table). Period
// bounds are in simulation time of the given day.
type OccupancyHistory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID  string    `gorm:"size:64;not null;index" json:"resource_id"`
	Kind        string    `gorm:"size:16;not null" json:"kind"`
	State       string    `gorm:"size:16;not null" json:"state"`
	OccupantID  string    `gorm:"size:64" json:"occupant_id,omitempty"`
	EventID     string    `gorm:"size:64" json:"event_id,omitempty"`
	Day         int       `gorm:"not null;index" json:"day"`
	PeriodStart float64   `gorm:"not null" json:"period_start"`
	PeriodEnd   float64   `gorm:"not null" json:"period_end"`
	ObservedAt  time.Time `gorm:"not null;index" json:"observed_at"` // when the end of the holding was persisted
}
