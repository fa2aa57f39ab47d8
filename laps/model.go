package laps

import "time"

// Lap is one completed traversal of the viewport
type Lap struct {
	ID          uint    `gorm:"primarykey"`
	Session     string  `gorm:"size:36;index"`
	Number      uint64  `gorm:"index"`
	Rate        float64 // Rate in effect on the final tick
	Ticks       int     // Ticks the cycle took
	ExitX       float64 // Left wheel x on the final tick
	CompletedAt time.Time
}
