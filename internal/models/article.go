package models

import "time"

// Article represents a published piece of content.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	ImagePath   *string    `json:"image_path,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ArticleSummary is the listing shape: truncated content plus
// denormalized author name and comment count.
type ArticleSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Author        string     `json:"author"`
	CommentsCount int        `json:"comments_count"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ArticleSearchResult is the shape returned by full-text search.
type ArticleSearchResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
}

// ArticleDetail is an article with its author and comments resolved.
type ArticleDetail struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	AuthorID    string     `json:"author_id"`
	ImagePath   *string    `json:"image_path"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Comments    []Comment  `json:"comments"`
}
