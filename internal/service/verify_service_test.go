package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fense-console/internal/domain"
	"fense-console/internal/preview"
)

func newVerifyFixture(t *testing.T, client *fakeClient) (*VerifyService, *preview.Store) {
	t.Helper()

	previews := preview.NewStore(time.Minute)
	t.Cleanup(previews.Close)

	return NewVerifyService(client, previews, 5*time.Second), previews
}

func TestVerifySubmit(t *testing.T) {
	t.Parallel()

	t.Run("text only", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyFn: func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
				if req.Text != "tin này có đúng không" {
					t.Errorf("unexpected text %q", req.Text)
				}
				if req.Image != nil {
					t.Error("no image should be attached")
				}
				return &domain.VerifyResponse{Message: "ok"}, nil
			},
		}
		svc, _ := newVerifyFixture(t, client)

		resp, err := svc.Submit(context.Background(), "owner-1", "tin này có đúng không")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Message != "ok" {
			t.Errorf("unexpected message %q", resp.Message)
		}
	})

	t.Run("attaches the staged image", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyFn: func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
				if req.Image == nil {
					t.Fatal("staged image should be attached")
				}
				if req.Image.Filename != "shot.png" || req.Image.ContentType != "image/png" {
					t.Errorf("unexpected attachment %q (%s)", req.Image.Filename, req.Image.ContentType)
				}
				return &domain.VerifyResponse{}, nil
			},
		}
		svc, previews := newVerifyFixture(t, client)
		previews.Put("owner-1", "shot.png", "image/png", []byte{1, 2, 3})

		if _, err := svc.Submit(context.Background(), "owner-1", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The staged image survives a successful submission.
		if _, ok := previews.Current("owner-1"); !ok {
			t.Error("staged image should still be live after submit")
		}
	})

	t.Run("empty submission", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{}
		svc, _ := newVerifyFixture(t, client)

		_, err := svc.Submit(context.Background(), "owner-1", "")
		if !errors.Is(err, domain.ErrEmptySubmission) {
			t.Errorf("expected ErrEmptySubmission, got %v", err)
		}
		if client.verifyCalls.Load() != 0 {
			t.Error("no request should reach the backend")
		}
	})

	t.Run("single flight per owner", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		started := make(chan struct{})
		var startedOnce sync.Once
		client := &fakeClient{
			verifyFn: func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
				startedOnce.Do(func() { close(started) })
				<-release
				return &domain.VerifyResponse{}, nil
			},
		}
		svc, _ := newVerifyFixture(t, client)

		firstDone := make(chan error, 1)
		go func() {
			_, err := svc.Submit(context.Background(), "owner-1", "first")
			firstDone <- err
		}()
		<-started

		if _, err := svc.Submit(context.Background(), "owner-1", "second"); !errors.Is(err, domain.ErrSubmissionInFlight) {
			t.Errorf("expected ErrSubmissionInFlight, got %v", err)
		}

		close(release)
		if err := <-firstDone; err != nil {
			t.Fatalf("first submission failed: %v", err)
		}

		// Once the first settles the owner may submit again.
		if _, err := svc.Submit(context.Background(), "owner-1", "third"); err != nil {
			t.Errorf("submit after settle failed: %v", err)
		}

		if got := client.verifyCalls.Load(); got != 2 {
			t.Errorf("expected 2 backend calls, got %d", got)
		}
	})

	t.Run("different owners do not block each other", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		started := make(chan struct{})
		client := &fakeClient{
			verifyFn: func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
				if req.Text == "slow" {
					close(started)
					<-release
				}
				return &domain.VerifyResponse{}, nil
			},
		}
		svc, _ := newVerifyFixture(t, client)

		done := make(chan error, 1)
		go func() {
			_, err := svc.Submit(context.Background(), "owner-1", "slow")
			done <- err
		}()
		<-started

		if _, err := svc.Submit(context.Background(), "owner-2", "fast"); err != nil {
			t.Errorf("second owner should not be blocked: %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Fatalf("slow submission failed: %v", err)
		}
	})

	t.Run("cancelled context settles the flight", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyFn: func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		svc, _ := newVerifyFixture(t, client)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.Submit(ctx, "owner-1", "x"); err == nil {
			t.Fatal("expected an error from the cancelled context")
		}

		// The failed flight must not wedge the owner.
		client.verifyFn = nil
		client.verifyResp = &domain.VerifyResponse{}
		if _, err := svc.Submit(context.Background(), "owner-1", "y"); err != nil {
			t.Errorf("owner should be free to submit again: %v", err)
		}
	})
}
