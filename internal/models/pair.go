package models

import "time"

type Pair struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FreshmanID    uint           `gorm:"not null;uniqueIndex" json:"freshman_id"`
	Freshman      Freshman       `gorm:"foreignKey:FreshmanID" json:"-"`
	SophomoreID   uint           `gorm:"not null;index" json:"sophomore_id"`
	Sophomore     Sophomore      `gorm:"foreignKey:SophomoreID" json:"-"`
	RevealedHints []RevealedHint `gorm:"foreignKey:PairID" json:"revealed_hints,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// RevealedHint records that the pair's freshman may see the sophomore's hint
// for HintSlugID. RevealIndex runs 0..9 without gaps.
type RevealedHint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PairID      uint      `gorm:"not null;uniqueIndex:idx_revealed_hint_index" json:"pair_id"`
	RevealIndex int       `gorm:"not null;uniqueIndex:idx_revealed_hint_index" json:"reveal_index"`
	HintSlugID  uint      `gorm:"not null" json:"hint_slug_id"`
	SophomoreID uint      `gorm:"not null;index" json:"sophomore_id"`
	Price       int       `gorm:"not null;default:0" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
