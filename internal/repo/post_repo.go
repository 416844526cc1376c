package repo

import (
	"context"

	dom "Weblog/internal/domain"
)

type PostRepo interface {
	Create(ctx context.Context, userID int64, title, content string) (dom.Post, error)
	List(ctx context.Context) ([]dom.Post, error)
	Search(ctx context.Context, q string) ([]dom.Post, error)
}

type PGPostRepo struct {
	db DB
}

func NewPGPostRepo(db DB) *PGPostRepo {
	return &PGPostRepo{db: db}
}

func (r *PGPostRepo) Create(ctx context.Context, userID int64, title, content string) (dom.Post, error) {
	query := `
		INSERT INTO posts (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at`
	var p dom.Post
	err := r.db.QueryRow(ctx, query, userID, title, content).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt,
	)
	return p, err
}

func (r *PGPostRepo) List(ctx context.Context) ([]dom.Post, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.title, p.content, p.created_at
		FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Post
	for rows.Next() {
		var p dom.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPostRepo) Search(ctx context.Context, q string) ([]dom.Post, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT p.id, p.user_id, u.username, p.title, p.content, p.created_at
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.title ILIKE $1 OR p.content ILIKE $1
		ORDER BY p.created_at DESC`
	rows, err := r.db.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Post
	for rows.Next() {
		var p dom.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
