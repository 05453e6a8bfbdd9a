package models

import "time"

// MenuCategory carries the per-guest rate every item of the category is priced at.
type MenuCategory struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Kind          string  `gorm:"size:20;not null" json:"kind"`
	PerGuestPrice float64 `json:"per_guest_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50;index;not null" json:"category"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
