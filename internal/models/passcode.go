package models

import "time"

// Passcode is a single-use secret issued by a sophomore. At most one unused
// passcode per owner is enforced by a partial unique index.
type Passcode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"size:6;uniqueIndex;not null" json:"content"`
	OwnerID   uint       `gorm:"not null;index;uniqueIndex:idx_passcode_active,where:used_by_id IS NULL" json:"owner_id"`
	UsedByID  *uint      `gorm:"index" json:"used_by_id,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (p *Passcode) Used() bool {
	return p.UsedByID != nil
}
