// Package posts is the social feed: users share a photo with a short story,
// and others like and comment on it.
package posts

import (
	"time"

	"github.com/greengauge/greengauge-go/comments"
)

// Author identifies a post's creator.
type Author struct {
	Username string `json:"username" example:"jane@example.com"`
}

// Summary is a post as listed in the feed.
type Summary struct {
	ID            string    `json:"id" example:"6f1c2a9e-3b7d-4e11-9a0c-5d2e8f4b1a73"`
	Title         string    `json:"title" example:"Swapped to a steel bottle"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url"`
	Slug          string    `json:"slug" example:"swapped-to-a-steel-bottle-6f1c2a9e"`
	CreatedAt     time.Time `json:"created_at"`
	Profiles      Author    `json:"profiles"`
	LikesCount    int64     `json:"likes_count" example:"3"`
	CommentsCount int64     `json:"comments_count" example:"1"`
}

// Detail is a single post with its comments, oldest first.
type Detail struct {
	Summary
	Comments []comments.Comment `json:"comments"`
}

// Post is a newly created post.
type Post struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creatorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest holds the text fields of POST /api/posts.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

// LikeResponse reports the like count after a toggle.
type LikeResponse struct {
	Likes int64 `json:"likes" example:"4"`
}
