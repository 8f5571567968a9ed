package models

import (
	"time"

	"gorm.io/datatypes"
)

type Freshman struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	StudentID      string         `gorm:"size:20;uniqueIndex;not null" json:"student_id"`
	FirstName      string         `gorm:"size:100;not null" json:"first_name"`
	LastName       string         `gorm:"size:100;not null" json:"last_name"`
	Nickname       string         `gorm:"size:100;not null" json:"nickname"`
	Branch         string         `gorm:"size:10;not null" json:"branch"`
	Phone          string         `gorm:"size:20" json:"phone,omitempty"`
	FacebookURL    string         `gorm:"size:500" json:"facebook_url,omitempty"`
	InstagramURL   string         `gorm:"size:500" json:"instagram_url,omitempty"`
	PasscodePoints int            `gorm:"not null;default:0" json:"passcode_points"`
	VIP            bool           `gorm:"not null;default:false" json:"vip"`
	EasterEgg      bool           `gorm:"not null;default:false" json:"easter_egg"`
	ActivePoolID   *uint          `json:"active_pool_id,omitempty"`
	RegistryFields datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}
