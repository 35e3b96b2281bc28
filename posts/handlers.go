package posts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/auth"
	"github.com/greengauge/greengauge-go/media"
)

// PostHandlers serves the feed.
type PostHandlers struct {
	service  PostService
	maxBytes int64
}

// NewPostHandlers creates feed handlers accepting images up to maxBytes.
func NewPostHandlers(service PostService, maxBytes int64) *PostHandlers {
	return &PostHandlers{service: service, maxBytes: maxBytes}
}

// RegisterRoutes mounts the public feed routes on the /api/posts router.
func (h *PostHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListPosts())
	r.Get("/{id}", h.HandleGetPost())
}

// RegisterProtectedRoutes mounts the write routes. r must already require
// authentication.
func (h *PostHandlers) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/", h.HandleCreatePost())
	r.Post("/{id}/like", h.HandleToggleLike())
}

// HandleListPosts godoc
// @Summary List posts
// @Tags Posts
// @Produce json
// @Success 200 {array} posts.Summary
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/posts [get]
func (h *PostHandlers) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGetPost godoc
// @Summary Get a post with its comments
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} posts.Detail
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/posts/{id} [get]
func (h *PostHandlers) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, d)
	}
}

// HandleCreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param image formData file true "JPEG, PNG, WebP or GIF image"
// @Success 201 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse "Image upload failed"
// @Router /api/posts [post]
func (h *PostHandlers) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		img, err := media.ReadFormImage(w, r, "image", h.maxBytes)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		req := CreatePostRequest{Title: r.FormValue("title"), Content: r.FormValue("content")}

		p, err := h.service.Create(r.Context(), userID, req, img)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleToggleLike godoc
// @Summary Like or unlike a post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} posts.LikeResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/posts/{id}/like [post]
func (h *PostHandlers) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		likes, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "id"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, LikeResponse{Likes: likes})
	}
}
