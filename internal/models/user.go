package models

import "time"

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string     `gorm:"size:255" json:"name"`
	Image     string     `gorm:"size:500" json:"image,omitempty"`
	Type      string     `gorm:"size:20;not null;default:'unknown'" json:"type"`
	Freshman  *Freshman  `gorm:"foreignKey:UserID" json:"freshman,omitempty"`
	Sophomore *Sophomore `gorm:"foreignKey:UserID" json:"sophomore,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const (
	UserTypeUnknown   = "unknown"
	UserTypeFreshman  = "freshman"
	UserTypeSophomore = "sophomore"
)

// Ready reports whether the user has finished registration.
func (u *User) Ready() bool {
	return u.Freshman != nil || u.Sophomore != nil
}
