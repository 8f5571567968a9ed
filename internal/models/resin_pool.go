package models

import "time"

const DefaultResinQuota = 40

// ResinPool is a freshman's quota for one calendar day. Day is formatted as
// YYYY-MM-DD in the event time zone.
type ResinPool struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FreshmanID uint      `gorm:"not null;uniqueIndex:idx_resin_pool_day" json:"freshman_id"`
	Day        string    `gorm:"size:10;not null;uniqueIndex:idx_resin_pool_day" json:"day"`
	Quota      int       `gorm:"not null" json:"quota"`
	CreatedAt  time.Time `json:"created_at"`
}
