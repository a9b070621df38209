package model

import "time"

// Service is an offering shown on the public site.
type Service struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	TitleFr       string    `db:"title_fr" json:"title_fr"`
	Description   string    `db:"description" json:"description"`
	DescriptionFr string    `db:"description_fr" json:"description_fr"`
	Icon          string    `db:"icon" json:"icon"`
	Image         string    `db:"image" json:"image"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	ImageURL          string `db:"-" json:"image_url,omitempty"`
	DescriptionHTML   string `db:"-" json:"description_html,omitempty"`
	DescriptionFrHTML string `db:"-" json:"description_fr_html,omitempty"`
}
