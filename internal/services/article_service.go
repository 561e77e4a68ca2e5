package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plumeworks/plume-be/internal/models"
	"github.com/plumeworks/plume-be/internal/search"
)

// Listing and search responses truncate article content to this many runes.
const contentPreviewLen = 200

// ArticleServiceProvider defines the interface for article services.
type ArticleServiceProvider interface {
	GetAllArticles() ([]models.ArticleSummary, error)
	GetArticleByID(id string) (models.ArticleDetail, error)
	SearchArticles(query string) ([]models.ArticleSearchResult, error)
	CreateArticle(title, content, authorID string, imagePath *string) (models.Article, error)
	UpdateArticle(id string, title, content *string) (models.Article, error)
	DeleteArticle(id string) error
}

// ArticleService provides business logic for article management.
type ArticleService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *sql.DB, eventSvc EventServiceProvider) *ArticleService {
	return &ArticleService{db: db, eventSvc: eventSvc}
}

// GetAllArticles retrieves every article as a listing summary with the
// author name and comment count resolved in a single query.
func (s *ArticleService) GetAllArticles() ([]models.ArticleSummary, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.title, a.content, u.name,
		       (SELECT COUNT(*) FROM comments c WHERE c.article_id = a.id),
		       a.published_at, a.created_at
		FROM articles a
		JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ArticleSummary
	for rows.Next() {
		var sm models.ArticleSummary
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.Content, &sm.Author, &sm.CommentsCount, &sm.PublishedAt, &sm.CreatedAt); err != nil {
			return nil, err
		}
		sm.Content = truncateContent(sm.Content) + "..."
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// GetArticleByID retrieves a single article with its author and comments.
func (s *ArticleService) GetArticleByID(id string) (models.ArticleDetail, error) {
	var detail models.ArticleDetail
	row := s.db.QueryRow(`
		SELECT a.id, a.title, a.content, u.name, a.author_id, a.image_path, a.published_at, a.created_at
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = ?`, id)
	err := row.Scan(&detail.ID, &detail.Title, &detail.Content, &detail.Author, &detail.AuthorID, &detail.ImagePath, &detail.PublishedAt, &detail.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ArticleDetail{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
		}
		return models.ArticleDetail{}, err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.content, c.article_id, c.user_id, u.name, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.article_id = ?
		ORDER BY c.created_at`, id)
	if err != nil {
		return models.ArticleDetail{}, err
	}
	defer rows.Close()

	detail.Comments = []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.ArticleID, &c.UserID, &c.User, &c.CreatedAt); err != nil {
			return models.ArticleDetail{}, err
		}
		detail.Comments = append(detail.Comments, c)
	}
	return detail, rows.Err()
}

// SearchArticles filters articles whose normalized title or content
// contains the normalized query. Result order follows storage order;
// there is no relevance ranking. An empty query matches nothing.
func (s *ArticleService) SearchArticles(query string) ([]models.ArticleSearchResult, error) {
	results := []models.ArticleSearchResult{}
	matcher := search.NewMatcher(query)
	if matcher.Empty() {
		return results, nil
	}

	rows, err := s.db.Query(`SELECT id, title, content, published_at FROM articles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.ArticleSearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.PublishedAt); err != nil {
			return nil, err
		}
		if matcher.Matches(r.Title, r.Content) {
			r.Content = truncateContent(r.Content)
			results = append(results, r)
		}
	}
	return results, rows.Err()
}

// CreateArticle validates and stores a new article, stamping the publish time.
func (s *ArticleService) CreateArticle(title, content, authorID string, imagePath *string) (models.Article, error) {
	if title == "" || len([]rune(title)) > 255 {
		return models.Article{}, fmt.Errorf("title is required and must be at most 255 characters: %w", ErrValidation)
	}
	if content == "" {
		return models.Article{}, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if authorID == "" {
		return models.Article{}, fmt.Errorf("author_id is required: %w", ErrValidation)
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", authorID).Scan(&exists); err != nil {
		return models.Article{}, err
	}
	if exists == 0 {
		return models.Article{}, fmt.Errorf("author %s does not exist: %w", authorID, ErrValidation)
	}

	now := time.Now().UTC()
	article := models.Article{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     content,
		AuthorID:    authorID,
		ImagePath:   imagePath,
		PublishedAt: &now,
		CreatedAt:   now,
	}

	stmt, err := s.db.Prepare("INSERT INTO articles(id, title, content, author_id, image_path, published_at, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Article{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(article.ID, article.Title, article.Content, article.AuthorID, article.ImagePath, article.PublishedAt, article.CreatedAt)
	if err != nil {
		return models.Article{}, err
	}

	s.eventSvc.CreateEvent("article.create", "info", fmt.Sprintf("Article '%s' published.", article.Title), &article.ID)
	return article, nil
}

// UpdateArticle applies a partial update of title and/or content.
func (s *ArticleService) UpdateArticle(id string, title, content *string) (models.Article, error) {
	article, err := s.getArticle(id)
	if err != nil {
		return models.Article{}, err
	}

	if title != nil {
		if *title == "" || len([]rune(*title)) > 255 {
			return models.Article{}, fmt.Errorf("title must be non-empty and at most 255 characters: %w", ErrValidation)
		}
		article.Title = *title
	}
	if content != nil {
		if *content == "" {
			return models.Article{}, fmt.Errorf("content must be non-empty: %w", ErrValidation)
		}
		article.Content = *content
	}

	_, err = s.db.Exec("UPDATE articles SET title = ?, content = ? WHERE id = ?", article.Title, article.Content, id)
	if err != nil {
		return models.Article{}, err
	}
	return article, nil
}

// DeleteArticle removes an article and, via the FK cascade, its comments.
func (s *ArticleService) DeleteArticle(id string) error {
	res, err := s.db.Exec("DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	s.eventSvc.CreateEvent("article.delete", "info", fmt.Sprintf("Article %s deleted.", id), nil)
	return nil
}

// getArticle fetches the raw article row without author/comment resolution.
func (s *ArticleService) getArticle(id string) (models.Article, error) {
	var article models.Article
	row := s.db.QueryRow("SELECT id, title, content, author_id, image_path, published_at, created_at FROM articles WHERE id = ?", id)
	err := row.Scan(&article.ID, &article.Title, &article.Content, &article.AuthorID, &article.ImagePath, &article.PublishedAt, &article.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
		}
		return models.Article{}, err
	}
	return article, nil
}

// truncateContent cuts content to the preview length on rune boundaries.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= contentPreviewLen {
		return content
	}
	return string(runes[:contentPreviewLen])
}
