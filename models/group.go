package models

// Group is a themed community a post may optionally belong to.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:50;not null;uniqueIndex:idx_groups_slug" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}
