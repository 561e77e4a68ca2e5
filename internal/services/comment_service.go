package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plumeworks/plume-be/internal/models"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	GetCommentsForArticle(articleID string) ([]models.Comment, error)
	CreateComment(articleID, userID, content string) (models.Comment, error)
	DeleteComment(id string) error
}

// CommentService provides business logic for comment management.
type CommentService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB, eventSvc EventServiceProvider) *CommentService {
	return &CommentService{db: db, eventSvc: eventSvc}
}

// GetCommentsForArticle retrieves all comments on an article, oldest first.
func (s *CommentService) GetCommentsForArticle(articleID string) ([]models.Comment, error) {
	if err := s.articleExists(articleID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.content, c.article_id, c.user_id, u.name, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.article_id = ?
		ORDER BY c.created_at`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.ArticleID, &c.UserID, &c.User, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment validates referential integrity and stores a new comment.
func (s *CommentService) CreateComment(articleID, userID, content string) (models.Comment, error) {
	if content == "" {
		return models.Comment{}, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if userID == "" {
		return models.Comment{}, fmt.Errorf("user_id is required: %w", ErrValidation)
	}
	if err := s.articleExists(articleID); err != nil {
		return models.Comment{}, err
	}

	var userCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&userCount); err != nil {
		return models.Comment{}, err
	}
	if userCount == 0 {
		return models.Comment{}, fmt.Errorf("user %s does not exist: %w", userID, ErrValidation)
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		ArticleID: articleID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO comments(id, content, article_id, user_id, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.Comment{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(comment.ID, comment.Content, comment.ArticleID, comment.UserID, comment.CreatedAt)
	if err != nil {
		return models.Comment{}, err
	}

	s.eventSvc.CreateEvent("comment.create", "info", "New comment posted.", &comment.ArticleID)
	return comment, nil
}

// DeleteComment removes a single comment.
func (s *CommentService) DeleteComment(id string) error {
	res, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *CommentService) articleExists(articleID string) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles WHERE id = ?", articleID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("article %s: %w", articleID, ErrNotFound)
	}
	return nil
}
