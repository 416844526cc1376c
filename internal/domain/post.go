package domain

import "time"

// Post is the domain entity for a published post.
// Username is denormalized from the author for display.
type Post struct {
	ID        int64
	UserID    int64
	Username  string
	Title     string
	Content   string
	CreatedAt time.Time
}
