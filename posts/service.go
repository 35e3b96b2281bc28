package posts

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/comments"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/media"
	"github.com/greengauge/greengauge-go/validation"
)

const (
	imageFolder           = "blog-posts"
	pgForeignKeyViolation = "23503"
)

// userGone reports a foreign key violation on a user reference: the token is
// valid but its user has been deleted.
func userGone(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// PostService defines the feed operations.
type PostService interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*Detail, error)
	Create(ctx context.Context, creatorID string, req CreatePostRequest, img *media.Image) (*Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (int64, error)
}

type postServiceImpl struct {
	db       *pgxpool.Pool
	comments comments.CommentService
	images   media.Store
	validate *validator.Validate
	newID    func() string
}

// NewPostService creates a PostService. images may be nil, in which case
// creating posts fails with an ExternalServiceError.
func NewPostService(db *pgxpool.Pool, cs comments.CommentService, images media.Store) PostService {
	return &postServiceImpl{db: db, comments: cs, images: images, validate: validation.New(), newID: uuid.NewString}
}

const summaryColumns = `
	p.id, p.title, p.content, p.image_url, p.slug, p.created_at, u.username,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)`

func scanSummary(row pgx.Row) (Summary, error) {
	var s Summary
	err := row.Scan(&s.ID, &s.Title, &s.Content, &s.ImageURL, &s.Slug, &s.CreatedAt,
		&s.Profiles.Username, &s.LikesCount, &s.CommentsCount)
	return s, err
}

// List returns every post, newest first.
func (s *postServiceImpl) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+summaryColumns+`
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		ORDER BY p.created_at DESC, p.id ASC`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Summary, error) {
		return scanSummary(row)
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to read posts", err)
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}

// Get returns one post with its comments.
func (s *postServiceImpl) Get(ctx context.Context, id string) (*Detail, error) {
	sum, err := scanSummary(s.db.QueryRow(ctx, `
		SELECT `+summaryColumns+`
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load post", err)
	}

	cs, err := s.comments.ListForPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Summary: sum, Comments: cs}, nil
}

// Create uploads the image and stores the post.
func (s *postServiceImpl) Create(ctx context.Context, creatorID string, req CreatePostRequest, img *media.Image) (*Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(s.validate, &req); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, apperror.NewMissingFieldError("image")
	}
	if s.images == nil {
		return nil, apperror.NewExternalServiceError("image uploads are not configured", nil)
	}

	url, err := s.images.Upload(ctx, imageFolder, img.Filename, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return nil, err
	}

	id := s.newID()
	p := &Post{
		ID:        id,
		CreatorID: creatorID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  url,
		Slug:      postSlug(req.Title, id),
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO posts (id, creator_id, title, content, image_url, slug)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.CreatorID, p.Title, p.Content, p.ImageURL, p.Slug,
	).Scan(&p.CreatedAt)
	if err != nil {
		// The uploaded image stays behind; the store has no delete.
		logging.Warnf("post insert failed after uploading %s: %v", url, err)
		if userGone(err) {
			return nil, apperror.NewAuthError("user no longer exists", err)
		}
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	return p, nil
}

// postSlug makes a readable slug that stays unique through the id prefix.
func postSlug(title, id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if s := slug.Make(title); s != "" {
		return s + "-" + suffix
	}
	return suffix
}

// ToggleLike adds userID's like to the post, or removes it if present, and
// returns the new count.
func (s *postServiceImpl) ToggleLike(ctx context.Context, postID, userID string) (likes int64, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else if cerr := tx.Commit(ctx); cerr != nil {
			likes, err = 0, apperror.NewDatabaseError("failed to commit like", cerr)
		}
	}()

	// Locking the post serializes concurrent toggles on it.
	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFoundError("post not found", nil)
		}
		return 0, apperror.NewDatabaseError("failed to look up post", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to remove like", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err = tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID); err != nil {
			if userGone(err) {
				return 0, apperror.NewAuthError("user no longer exists", err)
			}
			return 0, apperror.NewDatabaseError("failed to add like", err)
		}
	}

	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&likes); err != nil {
		return 0, apperror.NewDatabaseError("failed to count likes", err)
	}
	return likes, nil
}
