package models

import "time"

// Comment represents a user comment on an article.
type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ArticleID string `json:"article_id"`
	UserID    string `json:"user_id"`
	// Commenter name, resolved on read. Empty on write paths.
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
