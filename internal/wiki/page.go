package wiki

import "time"

// Page represents a wiki entry persisted in the database. Content is the raw
// Markdown source; rendering happens at view time.
type Page struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex:idx_pages_name;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the Page model.
func (Page) TableName() string {
	return "pages"
}
