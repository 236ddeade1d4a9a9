package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"postboard/models"
)

var _ PostStore = (*PostgresStore)(nil)

const postsSchema = `
CREATE TABLE IF NOT EXISTS posts (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name       TEXT NOT NULL,
    message    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC);`

// PostgresStore stores posts in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore wraps a connected pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// EnsureSchema creates the posts table and index when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postsSchema); err != nil {
		return fmt.Errorf("ensure posts table: %w", err)
	}
	return nil
}

// Create inserts a new row; the id is generated by the database.
func (s *PostgresStore) Create(ctx context.Context, base models.PostBase) (models.Post, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO posts (name, message, created_at)
        VALUES ($1, $2, $3)
        RETURNING id::text, name, message, created_at`,
		base.Name, base.Message, creationTime(base.CreatedAt, s.now))

	post, err := scanPost(row)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// ListAll returns every row ordered by created_at descending.
func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id::text, name, message, created_at
        FROM posts
        ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// UpdateByID replaces name and message, and created_at when supplied.
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, base models.PostBase) (models.Post, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.Post{}, ErrNotFound
	}

	var createdAt *time.Time
	if base.CreatedAt != nil {
		ts := creationTime(base.CreatedAt, s.now)
		createdAt = &ts
	}

	row := s.pool.QueryRow(ctx, `
        UPDATE posts
        SET name = $2, message = $3, created_at = COALESCE($4, created_at)
        WHERE id = $1::uuid
        RETURNING id::text, name, message, created_at`,
		uid.String(), base.Name, base.Message, createdAt)

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

// DeleteByID removes the row with the given id.
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1::uuid`, uid.String())
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	if err := row.Scan(&post.ID, &post.Name, &post.Message, &post.CreatedAt); err != nil {
		return models.Post{}, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return post, nil
}
