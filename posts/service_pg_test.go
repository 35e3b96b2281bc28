package posts

import (
	"context"
	"testing"
	"time"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/comments"
	"github.com/greengauge/greengauge-go/db/dbtest"
)

func TestPostgresFeed(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	dbtest.InsertUser(t, pool, "u1", "alice")
	dbtest.InsertUser(t, pool, "u2", "bob")
	cs := comments.NewCommentService(pool)
	svc := NewPostService(pool, cs, &recordingStore{})

	// Given: two posts by alice, the second one newer
	older, err := svc.Create(ctx, "u1", CreatePostRequest{Title: "Bamboo brush", Content: "no plastic"}, leaf)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	newer, err := svc.Create(ctx, "u1", CreatePostRequest{Title: "Steel bottle", Content: "day one"}, leaf)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t0 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	for id, at := range map[string]time.Time{older.ID: t0, newer.ID: t0.Add(time.Hour)} {
		if _, err := pool.Exec(ctx, `UPDATE posts SET created_at = $1 WHERE id = $2`, at, id); err != nil {
			t.Fatalf("could not backdate post: %v", err)
		}
	}

	// When: bob likes and both comment on the newer post
	if likes, err := svc.ToggleLike(ctx, newer.ID, "u2"); err != nil || likes != 1 {
		t.Fatalf("ToggleLike = %d, %v; want 1", likes, err)
	}
	for _, c := range []struct{ user, text string }{{"u2", "nice"}, {"u1", "thanks"}} {
		if _, err := cs.AddComment(ctx, newer.ID, c.user, comments.NewCommentRequest{Content: c.text}); err != nil {
			t.Fatalf("AddComment failed: %v", err)
		}
	}

	// Then: the feed lists newest first with counts
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("List order = %+v", list)
	}
	if list[0].LikesCount != 1 || list[0].CommentsCount != 2 || list[0].Profiles.Username != "alice" {
		t.Errorf("newer summary = %+v", list[0])
	}
	if list[1].LikesCount != 0 || list[1].CommentsCount != 0 {
		t.Errorf("older summary = %+v", list[1])
	}

	detail, err := svc.Get(ctx, newer.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Slug != newer.Slug || len(detail.Comments) != 2 {
		t.Fatalf("detail = %+v", detail)
	}
	if detail.Comments[0].Content != "nice" || detail.Comments[0].Profiles.Username != "bob" {
		t.Errorf("first comment = %+v, want bob's", detail.Comments[0])
	}
}

func TestPostgresToggleLike(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	dbtest.InsertUser(t, pool, "u1", "alice")
	dbtest.InsertUser(t, pool, "u2", "bob")
	svc := NewPostService(pool, comments.NewCommentService(pool), &recordingStore{})
	p, err := svc.Create(ctx, "u1", CreatePostRequest{Title: "Refill run", Content: "jars"}, leaf)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	steps := []struct {
		user string
		want int64
	}{
		{"u1", 1}, // like
		{"u2", 2}, // like
		{"u1", 1}, // unlike
		{"u1", 2}, // like again
		{"u2", 1}, // unlike
	}
	for i, s := range steps {
		got, err := svc.ToggleLike(ctx, p.ID, s.user)
		if err != nil {
			t.Fatalf("step %d: ToggleLike failed: %v", i, err)
		}
		if got != s.want {
			t.Errorf("step %d: likes = %d, want %d", i, got, s.want)
		}
	}

	if _, err := svc.ToggleLike(ctx, "no-such-post", "u1"); !apperror.IsNotFound(err) {
		t.Errorf("like on missing post error = %v, want not found", err)
	}
	if _, err := svc.ToggleLike(ctx, p.ID, "deleted-user"); !apperror.IsAuthError(err) {
		t.Errorf("like by unknown user error = %v, want auth error", err)
	}
	if _, err := svc.Get(ctx, "no-such-post"); !apperror.IsNotFound(err) {
		t.Errorf("Get missing post error = %v, want not found", err)
	}
}

func TestPostgresCreateByDeletedUser(t *testing.T) {
	pool := dbtest.Open(t)
	svc := NewPostService(pool, comments.NewCommentService(pool), &recordingStore{})

	_, err := svc.Create(context.Background(), "deleted-user", CreatePostRequest{Title: "t", Content: "c"}, leaf)
	if !apperror.IsAuthError(err) {
		t.Errorf("Create error = %v, want auth error", err)
	}
}
