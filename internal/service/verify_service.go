package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fense-console/internal/backend"
	"fense-console/internal/domain"
	"fense-console/internal/preview"
)

// VerifyService submits text and staged images for verification. It is
// single-flight per owner: while one submission is unsettled, a second
// submit for the same owner is rejected rather than raced.
type VerifyService struct {
	client   backend.Client
	previews *preview.Store
	timeout  time.Duration

	inFlight map[string]struct{}
	mu       sync.Mutex
}

func NewVerifyService(client backend.Client, previews *preview.Store, timeout time.Duration) *VerifyService {
	return &VerifyService{
		client:   client,
		previews: previews,
		timeout:  timeout,
		inFlight: make(map[string]struct{}),
	}
}

// Submit sends the text plus the owner's currently staged image, if any.
// The staged image survives a successful submission; only the text input is
// cleared by the caller. The call is bounded by the configured timeout and
// cancelled when ctx ends, so an abandoned page never leaves a request
// dangling.
func (s *VerifyService) Submit(ctx context.Context, owner, text string) (*domain.VerifyResponse, error) {
	req := domain.VerificationRequest{Text: text}
	if resource, ok := s.previews.Current(owner); ok {
		req.Image = &domain.ImageAttachment{
			Filename:    resource.Filename,
			ContentType: resource.ContentType,
			Data:        resource.Data,
		}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.begin(owner) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.end(owner)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.VerifyInput(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}

	log.Printf("Verification completed for owner %s (text: %d chars, image: %t)",
		owner, len(text), req.Image != nil)
	return response, nil
}

func (s *VerifyService) begin(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[owner]; busy {
		return false
	}
	s.inFlight[owner] = struct{}{}
	return true
}

func (s *VerifyService) end(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, owner)
}
