package models

import (
	"time"

	"gorm.io/datatypes"
)

type Sophomore struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	StudentID      string          `gorm:"size:20;uniqueIndex;not null" json:"student_id"`
	FirstName      string          `gorm:"size:100" json:"first_name"`
	LastName       string          `gorm:"size:100" json:"last_name"`
	Nickname       string          `gorm:"size:100" json:"nickname"`
	Branch         string          `gorm:"size:10" json:"branch"`
	FacebookURL    string          `gorm:"size:500" json:"facebook_url,omitempty"`
	InstagramURL   string          `gorm:"size:500" json:"instagram_url,omitempty"`
	HintsReady     bool            `gorm:"not null;default:false" json:"hints_ready"`
	Hints          []SophomoreHint `gorm:"foreignKey:SophomoreID" json:"hints,omitempty"`
	RegistryFields datatypes.JSON  `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SophomoreHint is one hint a sophomore wrote for a catalog slot.
type SophomoreHint struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	SophomoreID uint     `gorm:"not null;uniqueIndex:idx_sophomore_hint_slug" json:"sophomore_id"`
	HintSlugID  uint     `gorm:"not null;uniqueIndex:idx_sophomore_hint_slug" json:"hint_slug_id"`
	HintSlug    HintSlug `gorm:"foreignKey:HintSlugID" json:"slug"`
	Content     string   `gorm:"type:text;not null" json:"content"`
}
