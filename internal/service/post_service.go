package service

import (
	"context"
	"fmt"
	"time"

	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/repository"
)

// postDateLayout is the display format stored with each post, matching
// the rendered page rather than a machine timestamp.
const postDateLayout = "January 02, 2006"

// PostService manages blog posts and their comments.
type PostService interface {
	// CreatePost stores a new post stamped with today's display date.
	CreatePost(ctx context.Context, authorID int64, title, subtitle, imgURL, body string) (*models.Post, error)

	// GetPost returns a post by ID, or ErrNotFound.
	GetPost(ctx context.Context, id int64) (*models.Post, error)

	// ListPosts returns all posts ordered by title.
	ListPosts(ctx context.Context) ([]*models.Post, error)

	// UpdatePost rewrites a post's content. The original date is kept.
	UpdatePost(ctx context.Context, id int64, title, subtitle, imgURL, body string) (*models.Post, error)

	// DeletePost removes a post and, through the schema, its comments.
	DeletePost(ctx context.Context, id int64) error

	// AddComment attaches a comment to an existing post.
	AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error)

	// ListComments returns a post's comments, oldest first.
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)

	// DeleteComment removes a comment if requesterID authored it.
	DeleteComment(ctx context.Context, id, requesterID int64) error
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	now         func() time.Time
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID int64, title, subtitle, imgURL, body string) (*models.Post, error) {
	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: subtitle,
		Date:     s.now().Format(postDateLayout),
		Body:     body,
		ImgURL:   imgURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if isUniqueViolation(err) {
			return nil, weberrors.NewConflictError("title", "The post with such title already exists.")
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, weberrors.ErrNotFound
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) UpdatePost(ctx context.Context, id int64, title, subtitle, imgURL, body string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, weberrors.ErrNotFound
	}

	post.Title = title
	post.Subtitle = subtitle
	post.ImgURL = imgURL
	post.Body = body
	if err := s.postRepo.Update(ctx, post); err != nil {
		if isUniqueViolation(err) {
			return nil, weberrors.NewConflictError("title", "The post with such title already exists.")
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id int64) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return weberrors.ErrNotFound
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *postService) AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, weberrors.ErrNotFound
	}

	comment := &models.Comment{
		AuthorID: authorID,
		PostID:   postID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *postService) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *postService) DeleteComment(ctx context.Context, id, requesterID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return weberrors.ErrNotFound
	}
	if comment.AuthorID != requesterID {
		return weberrors.ErrForbidden
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

var _ PostService = (*postService)(nil)
