package models

import "time"

// Comment represents a reader comment attached to a post.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined author fields for rendering.
	AuthorName   string `json:"author_name,omitempty" db:"-"`
	AuthorAvatar string `json:"author_avatar,omitempty" db:"-"`
}
