package model

import "time"

type Testimonial struct {
	ID        int64     `db:"id" json:"id"`
	Author    string    `db:"author" json:"author"`
	Company   string    `db:"company" json:"company"`
	Content   string    `db:"content" json:"content"`
	ContentFr string    `db:"content_fr" json:"content_fr"`
	Rating    int       `db:"rating" json:"rating"` // 1..5
	Photo     string    `db:"photo" json:"photo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	PhotoURL string `db:"-" json:"photo_url,omitempty"`
}
