package model

import "time"

// Slot stores one JSON blob of the persisted state in SQL backends.
type Slot struct {
	Name      string `gorm:"primaryKey"`
	Value     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
