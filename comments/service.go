package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/validation"
)

// CommentService defines the comment operations.
type CommentService interface {
	AddComment(ctx context.Context, postID, userID string, req NewCommentRequest) (*Comment, error)
	ListForPost(ctx context.Context, postID string) ([]Comment, error)
}

type commentServiceImpl struct {
	db       *pgxpool.Pool
	validate *validator.Validate
	newID    func() string
}

// NewCommentService creates a CommentService backed by PostgreSQL.
func NewCommentService(db *pgxpool.Pool) CommentService {
	return &commentServiceImpl{db: db, validate: validation.New(), newID: uuid.NewString}
}

// AddComment appends a comment to postID. The post must exist.
func (s *commentServiceImpl) AddComment(ctx context.Context, postID, userID string, req NewCommentRequest) (c *Comment, err error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(s.validate, &req); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else if cerr := tx.Commit(ctx); cerr != nil {
			c, err = nil, apperror.NewDatabaseError("failed to commit comment", cerr)
		}
	}()

	// FOR SHARE keeps the post from being deleted until the comment is in.
	var exists string
	err = tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR SHARE`, postID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up post", err)
	}

	c = &Comment{ID: s.newID(), PostID: postID, UserID: userID, Content: req.Content}
	err = tx.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO post_comments (id, post_id, user_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING user_id, created_at
		)
		SELECT i.created_at, u.username
		FROM inserted i
		JOIN users u ON u.id = i.user_id`,
		c.ID, postID, userID, req.Content,
	).Scan(&c.CreatedAt, &c.Profiles.Username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperror.NewAuthError("user no longer exists", err)
		}
		return nil, apperror.NewDatabaseError("failed to add comment", err)
	}
	return c, nil
}

// ListForPost returns a post's comments, oldest first.
func (s *commentServiceImpl) ListForPost(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.username
		FROM post_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) {
		var c Comment
		err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Profiles.Username)
		return c, err
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to read comments", err)
	}
	if list == nil {
		list = []Comment{}
	}
	return list, nil
}
