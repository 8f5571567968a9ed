package models

// HintSlug names one of the fixed hint positions. OrderNum is the reveal
// order: the n-th reveal of a pair discloses the slug with the n-th OrderNum.
type HintSlug struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Slug     string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Title    string `gorm:"size:255;not null" json:"title"`
	OrderNum int    `gorm:"not null;uniqueIndex" json:"order_num"`
}

var DefaultHintSlugs = []HintSlug{
	{Slug: "appearance", Title: "รูปลักษณ์ภายนอก", OrderNum: 0},
	{Slug: "hobby", Title: "งานอดิเรก", OrderNum: 1},
	{Slug: "favorite_food", Title: "อาหารที่ชอบ", OrderNum: 2},
	{Slug: "favorite_music", Title: "เพลงที่ชอบ", OrderNum: 3},
	{Slug: "hometown", Title: "บ้านเกิด", OrderNum: 4},
	{Slug: "personality", Title: "นิสัย", OrderNum: 5},
	{Slug: "favorite_place", Title: "สถานที่ที่ชอบในคณะ", OrderNum: 6},
	{Slug: "nickname_initial", Title: "ตัวอักษรแรกของชื่อเล่น", OrderNum: 7},
	{Slug: "instagram_initial", Title: "ตัวอักษรแรกของไอจี", OrderNum: 8},
	{Slug: "name_initial", Title: "ตัวอักษรแรกของชื่อจริง", OrderNum: 9},
}
