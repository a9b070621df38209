package model

import "time"

type Project struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	TitleFr       string    `db:"title_fr" json:"title_fr"`
	Description   string    `db:"description" json:"description"`
	DescriptionFr string    `db:"description_fr" json:"description_fr"`
	Client        string    `db:"client" json:"client"`
	Category      string    `db:"category" json:"category"`
	Image         string    `db:"image" json:"image"`
	URL           string    `db:"url" json:"url"`
	Featured      bool      `db:"featured" json:"featured"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	ImageURL          string `db:"-" json:"image_url,omitempty"`
	DescriptionHTML   string `db:"-" json:"description_html,omitempty"`
	DescriptionFrHTML string `db:"-" json:"description_fr_html,omitempty"`
}
