package model

import "time"

// Zone groups desks by the prefix of their label, e.g. "North" for "North-12".
type Zone struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	Desks []Desk `gorm:"foreignKey:ZoneID" json:"-"`
}
