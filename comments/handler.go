package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/auth"
)

// CommentHandler serves comment writes.
type CommentHandler struct {
	service CommentService
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// RegisterRoutes mounts POST /{id}/comments on the posts router. r must
// already require authentication.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/comments", h.HandleAddComment())
}

// HandleAddComment godoc
// @Summary Comment on a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param body body comments.NewCommentRequest true "Comment"
// @Success 201 {object} comments.Comment
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/{id}/comments [post]
func (h *CommentHandler) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		var req NewCommentRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		c, err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, c)
	}
}
