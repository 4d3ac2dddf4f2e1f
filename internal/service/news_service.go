package service

import (
	"context"
	"fmt"
	"strings"

	"fense-console/internal/backend"
	"fense-console/internal/domain"
)

// NewsService reads and maintains the crawled-article collection. Fetch
// failures are returned to the caller as errors, distinct from an empty
// collection, so the view can show a real failure state.
type NewsService struct {
	client backend.Client
}

func NewNewsService(client backend.Client) *NewsService {
	return &NewsService{client: client}
}

func (s *NewsService) List(ctx context.Context) ([]domain.NewsItem, error) {
	items, err := s.client.News(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	return items, nil
}

// Search queries the backend's retrieval index. A blank query falls back to
// the full listing.
func (s *NewsService) Search(ctx context.Context, query string) ([]domain.NewsItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	items, err := s.client.SearchNews(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}
	return items, nil
}

func (s *NewsService) Add(ctx context.Context, title, content, link string) (string, error) {
	title = strings.TrimSpace(title)
	item := domain.NewsItem{Title: title, Content: content, Source: link}
	if err := item.Validate(); err != nil {
		return "", err
	}

	message, err := s.client.AddNews(ctx, title, content, link)
	if err != nil {
		return "", fmt.Errorf("failed to add news: %w", err)
	}
	return message, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidNewsID
	}

	message, err := s.client.DeleteNews(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to delete news %s: %w", id, err)
	}
	return message, nil
}
