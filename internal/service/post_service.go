package service

import (
	"context"
	"strings"

	"Weblog/internal/cache"
	dom "Weblog/internal/domain"
	"Weblog/internal/repo"

	"golang.org/x/sync/singleflight"
)

// PostService handles post creation, the home feed and keyword search.
type PostService struct {
	repo  repo.PostRepo
	cache *cache.PostCache
	sf    singleflight.Group
}

// NewPostService creates a PostService. If c is nil, caching is disabled.
func NewPostService(r repo.PostRepo, c *cache.PostCache) *PostService {
	return &PostService{repo: r, cache: c}
}

// Create stores a post authored by userID. Title and content are required.
func (s *PostService) Create(ctx context.Context, userID int64, title, content string) (dom.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return dom.Post{}, ErrValidation
	}
	p, err := s.repo.Create(ctx, userID, title, content)
	if err != nil {
		return dom.Post{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]dom.Post, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("feed", func() (interface{}, error) {
			if list, err := s.cache.GetFeed(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetFeed(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Post), nil
	}
	return s.repo.List(ctx)
}

// Search returns posts whose title or content contains q as a substring.
func (s *PostService) Search(ctx context.Context, q string) ([]dom.Post, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Post), nil
	}
	return s.repo.Search(ctx, q)
}

func (s *PostService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
