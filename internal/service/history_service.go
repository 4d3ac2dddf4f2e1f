package service

import (
	"context"
	"fmt"

	"fense-console/internal/backend"
	"fense-console/internal/domain"
)

// HistoryService reads the verification request history.
type HistoryService struct {
	client backend.Client
}

func NewHistoryService(client backend.Client) *HistoryService {
	return &HistoryService{client: client}
}

func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryItem, error) {
	items, err := s.client.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return items, nil
}
