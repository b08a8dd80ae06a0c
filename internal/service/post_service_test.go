package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
)

// --- Mock Repositories ---

type mockPostRepo struct {
	posts  map[int64]*models.Post
	nextID int64
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int64]*models.Post), nextID: 1}
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	for _, p := range m.posts {
		if p.Title == post.Title {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "blog_posts_title_key"}
		}
	}
	post.ID = m.nextID
	m.nextID++
	post.CreatedAt = time.Now()
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return m.posts[id], nil
}

func (m *mockPostRepo) List(ctx context.Context) ([]*models.Post, error) {
	var result []*models.Post
	for _, p := range m.posts {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	for _, p := range m.posts {
		if p.ID != post.ID && p.Title == post.Title {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "blog_posts_title_key"}
		}
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	delete(m.posts, id)
	return nil
}

type mockCommentRepo struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[int64]*models.Comment), nextID: 1}
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = m.nextID
	m.nextID++
	comment.CreatedAt = time.Now()
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return m.comments[id], nil
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var result []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.comments, id)
	return nil
}

type postTestEnv struct {
	posts    *mockPostRepo
	comments *mockCommentRepo
	svc      PostService
}

func newPostTestEnv() *postTestEnv {
	posts := newMockPostRepo()
	comments := newMockCommentRepo()
	return &postTestEnv{
		posts:    posts,
		comments: comments,
		svc:      NewPostService(posts, comments),
	}
}

const (
	validTitle    = "Morning Light Over Quiet Hills"
	validSubtitle = "Notes from a long walk at dawn"
	validBody     = "A long meandering account of the walk, the weather, the hedgerows, and everything seen along the way that morning."
)

// --- Tests ---

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the display date", func(t *testing.T) {
		env := newPostTestEnv()

		post, err := env.svc.CreatePost(ctx, 1, validTitle, validSubtitle, "https://images.unsplash.com/photo-1", validBody)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}

		if _, perr := time.Parse("January 02, 2006", post.Date); perr != nil {
			t.Errorf("Date = %q, not in display format: %v", post.Date, perr)
		}
		if post.AuthorID != 1 {
			t.Errorf("AuthorID = %d, want 1", post.AuthorID)
		}
	})

	t.Run("duplicate title conflicts", func(t *testing.T) {
		env := newPostTestEnv()
		if _, err := env.svc.CreatePost(ctx, 1, validTitle, validSubtitle, "https://images.unsplash.com/photo-1", validBody); err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}

		_, err := env.svc.CreatePost(ctx, 1, validTitle, "Another perfectly fine subtitle", "https://images.unsplash.com/photo-2", validBody)
		if !weberrors.IsKind(err, weberrors.KindConflict) {
			t.Fatalf("CreatePost() error = %v, want conflict", err)
		}
		if got := weberrors.AsWebError(err).Message; got != "The post with such title already exists." {
			t.Errorf("conflict message = %q", got)
		}
		if len(env.posts.posts) != 1 {
			t.Errorf("post rows = %d, want 1", len(env.posts.posts))
		}
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the original date", func(t *testing.T) {
		env := newPostTestEnv()
		post, _ := env.svc.CreatePost(ctx, 1, validTitle, validSubtitle, "https://images.unsplash.com/photo-1", validBody)
		originalDate := post.Date

		updated, err := env.svc.UpdatePost(ctx, post.ID, "Evening Shadows Across The Lake", validSubtitle, post.ImgURL, validBody)
		if err != nil {
			t.Fatalf("UpdatePost() error = %v", err)
		}
		if updated.Date != originalDate {
			t.Errorf("Date changed from %q to %q on edit", originalDate, updated.Date)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		env := newPostTestEnv()

		_, err := env.svc.UpdatePost(ctx, 42, validTitle, validSubtitle, "https://images.unsplash.com/photo-1", validBody)
		if weberrors.AsWebError(err) != weberrors.ErrNotFound {
			t.Errorf("UpdatePost() error = %v, want not found", err)
		}
	})
}

func TestPostService_Comments(t *testing.T) {
	ctx := context.Background()

	t.Run("comment on missing post", func(t *testing.T) {
		env := newPostTestEnv()

		_, err := env.svc.AddComment(ctx, 42, 1, "This comment is long enough to pass validation rules.")
		if weberrors.AsWebError(err) != weberrors.ErrNotFound {
			t.Errorf("AddComment() error = %v, want not found", err)
		}
	})

	t.Run("only the author may delete a comment", func(t *testing.T) {
		env := newPostTestEnv()
		post, _ := env.svc.CreatePost(ctx, 1, validTitle, validSubtitle, "https://images.unsplash.com/photo-1", validBody)
		comment, err := env.svc.AddComment(ctx, post.ID, 2, "This comment is long enough to pass validation rules.")
		if err != nil {
			t.Fatalf("AddComment() error = %v", err)
		}

		if err := env.svc.DeleteComment(ctx, comment.ID, 3); weberrors.AsWebError(err) != weberrors.ErrForbidden {
			t.Errorf("DeleteComment() by stranger error = %v, want forbidden", err)
		}
		if env.comments.comments[comment.ID] == nil {
			t.Fatal("comment deleted despite forbidden")
		}

		if err := env.svc.DeleteComment(ctx, comment.ID, 2); err != nil {
			t.Errorf("DeleteComment() by author error = %v", err)
		}
		if env.comments.comments[comment.ID] != nil {
			t.Error("comment survived deletion by author")
		}
	})
}
