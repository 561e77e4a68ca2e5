package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plumeworks/plume-be/internal/models"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ArticleHandler handles HTTP requests for article management.
type ArticleHandler struct {
	service services.ArticleServiceProvider
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service services.ArticleServiceProvider) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// ArticlePayload defines the structure for article create requests.
type ArticlePayload struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	AuthorID  string  `json:"author_id"`
	ImagePath *string `json:"image_path"`
}

// GetAll handles the request to list all articles as summaries.
func (h *ArticleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.GetAllArticles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list articles")
		http.Error(w, "Failed to list articles", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.ArticleSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// Get handles retrieving a single article with author and comments.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.service.GetArticleByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("article_id", id).Msg("Failed to get article")
		http.Error(w, "Failed to get article", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// Search handles accent-insensitive full-text search over articles.
// An absent or empty q parameter yields an empty result set.
func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.service.SearchArticles(query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Article search failed")
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Create handles storing a new article.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ArticlePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	article, err := h.service.CreateArticle(payload.Title, payload.Content, payload.AuthorID, payload.ImagePath)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to create article")
		http.Error(w, "Failed to create article", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(article)
}

// Update handles a partial update of an article's title and content.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	article, err := h.service.UpdateArticle(id, payload.Title, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Article not found", http.StatusNotFound)
		case errors.Is(err, services.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("article_id", id).Msg("Failed to update article")
			http.Error(w, "Failed to update article", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(article)
}

// Delete handles removing an article.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteArticle(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("article_id", id).Msg("Failed to delete article")
		http.Error(w, "Failed to delete article", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Article deleted successfully"})
}
