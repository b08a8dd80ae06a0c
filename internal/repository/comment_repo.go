package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybreakhq/daybreak/internal/models"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepo struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepo{pool: pool}
}

// Create inserts a new comment.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (author_id, post_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		comment.AuthorID,
		comment.PostID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// GetByID retrieves a comment by its identifier.
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, author_id, post_id, text, created_at
		FROM comments WHERE id = $1`

	var comment models.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.PostID,
		&comment.Text,
		&comment.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments on a post, oldest first, with the
// author's display name and avatar joined in for rendering.
func (r *commentRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.author_id, c.post_id, c.text, c.created_at, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.AuthorID,
			&comment.PostID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.AuthorName,
			&comment.AuthorAvatar,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

// Delete permanently removes a comment.
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Compile-time check to ensure commentRepo implements CommentRepository.
var _ CommentRepository = (*commentRepo)(nil)
