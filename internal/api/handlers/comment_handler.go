package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles HTTP requests for comments on articles.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// CommentPayload defines the structure for comment create requests.
type CommentPayload struct {
	Content string `json:"content"`
	UserID  string `json:"user_id"`
}

// GetForArticle handles listing the comments of an article.
func (h *CommentHandler) GetForArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	comments, err := h.service.GetCommentsForArticle(articleID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("article_id", articleID).Msg("Failed to list comments")
		http.Error(w, "Failed to list comments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

// Create handles posting a new comment on an article.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.service.CreateComment(articleID, payload.UserID, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Article not found", http.StatusNotFound)
		case errors.Is(err, services.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("article_id", articleID).Msg("Failed to create comment")
			http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

// Delete handles removing a comment.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "commentId")
	if err := h.service.DeleteComment(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("comment_id", id).Msg("Failed to delete comment")
		http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
