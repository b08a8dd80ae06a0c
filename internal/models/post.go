package models

import "time"

// Post represents a published blog post. Date is the display string the
// post was authored with ("January 02, 2006"), kept verbatim.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Subtitle  string    `json:"subtitle" db:"subtitle"`
	Date      string    `json:"date" db:"date"`
	Body      string    `json:"body" db:"body"`
	ImgURL    string    `json:"img_url" db:"img_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// AuthorName is populated on joined reads.
	AuthorName string `json:"author_name,omitempty" db:"-"`
}
