// Package comments stores and serves comments on social feed posts.
package comments

import "time"

// maxCommentLength is counted in characters, not bytes.
const maxCommentLength = 2000

// Author identifies who wrote a comment.
type Author struct {
	Username string `json:"username" example:"jane@example.com"`
}

// Comment is a comment on a post.
type Comment struct {
	ID        string    `json:"id" example:"0b6f7c1e-8a51-4a3c-9d0e-2f9a4c3b5e71"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content" example:"Great swap, I did the same!"`
	CreatedAt time.Time `json:"created_at"`
	Profiles  Author    `json:"profiles"`
}

// NewCommentRequest is the body of POST /api/posts/{id}/comments.
type NewCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
