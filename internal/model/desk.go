package model

import "time"

// Desk is the stored form of a desk in the current floor plan.
type Desk struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	ZoneID      int64     `gorm:"index;not null" json:"zone_id"`
	DisplayName string    `gorm:"size:128;not null" json:"name"`
	Seq         int       `json:"seq"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Zone Zone `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Space is the stored form of a meeting room.
type Space struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	DisplayName string    `gorm:"size:128;not null" json:"name"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
