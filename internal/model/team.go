package model

import "time"

type TeamMember struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Position   string    `db:"position" json:"position"`
	PositionFr string    `db:"position_fr" json:"position_fr"`
	Bio        string    `db:"bio" json:"bio"`
	BioFr      string    `db:"bio_fr" json:"bio_fr"`
	Photo      string    `db:"photo" json:"photo"`
	LinkedIn   string    `db:"linkedin" json:"linkedin"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	PhotoURL string `db:"-" json:"photo_url,omitempty"`
}
