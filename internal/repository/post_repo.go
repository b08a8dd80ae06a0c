package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybreakhq/daybreak/internal/models"
)

// PostRepository defines the interface for blog post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
}

type postRepo struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new post repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepo{pool: pool}
}

// Create inserts a new post. A unique-violation error from the title
// constraint is returned unwrapped so callers can classify it.
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
	).Scan(&post.ID, &post.CreatedAt)
}

// GetByID retrieves a post with its author's display name joined in.
func (r *postRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.name
		FROM blog_posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	var post models.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Subtitle,
		&post.Date,
		&post.Body,
		&post.ImgURL,
		&post.CreatedAt,
		&post.AuthorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves all posts ordered by title.
func (r *postRepo) List(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.name
		FROM blog_posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.title`

	return r.queryPosts(ctx, query)
}

func (r *postRepo) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Subtitle,
			&post.Date,
			&post.Body,
			&post.ImgURL,
			&post.CreatedAt,
			&post.AuthorName,
		); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Update overwrites a post's editable fields.
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE blog_posts
		SET title = $2, subtitle = $3, body = $4, img_url = $5
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, post.ID, post.Title, post.Subtitle, post.Body, post.ImgURL)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete permanently removes a post. Its comments go with it via the
// post_id foreign key cascade.
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Compile-time check to ensure postRepo implements PostRepository.
var _ PostRepository = (*postRepo)(nil)
