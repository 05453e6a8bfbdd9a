package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ids are generated in Go so inserts behave the same on every dialect.

func (a *Appointment) BeforeCreate(*gorm.DB) error        { ensureID(&a.ID); return nil }
func (t *Tasting) BeforeCreate(*gorm.DB) error            { ensureID(&t.ID); return nil }
func (p *PaymentTransaction) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (r *CancellationRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
func (r *RescheduleRequest) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error      { ensureID(&n.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error              { ensureID(&u.ID); return nil }
