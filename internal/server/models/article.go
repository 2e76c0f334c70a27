package models

import "time"

// Article is a shared link. Title is optional.
type Article struct {
	ID        int64
	URL       string
	Title     *string
	UserID    int64
	CreatedAt time.Time
}

// ArticleView is an article joined with its author's username, as listed
// to clients.
type ArticleView struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     *string   `json:"title"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"username"`
}
