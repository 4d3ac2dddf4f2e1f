// Package preview holds staged image uploads between the moment an operator
// attaches an image and the moment the verification form is submitted. Each
// owner (session) has at most one live resource; staging a new image revokes
// the previous one, and a revoked resource is never served again.
package preview

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fense-console/internal/domain"
)

// Resource is one staged image, addressable at /preview/{ID} until revoked.
type Resource struct {
	ID          string
	Owner       string
	Filename    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

func (r *Resource) URL() string {
	return "/preview/" + r.ID
}

type Store struct {
	byID    map[string]*Resource
	byOwner map[string]string
	ttl     time.Duration
	mu      sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a Store whose resources expire after ttl. A janitor
// goroutine reclaims resources abandoned without an explicit remove; it runs
// until Close.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		byID:    make(map[string]*Resource),
		byOwner: make(map[string]string),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put stages an image for owner, revoking any resource the owner already
// holds. The returned resource is live until replaced, removed, expired, or
// the store is closed.
func (s *Store) Put(owner, filename, contentType string, data []byte) *Resource {
	resource := &Resource{
		ID:          uuid.NewString(),
		Owner:       owner,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previousID, ok := s.byOwner[owner]; ok {
		delete(s.byID, previousID)
	}
	s.byID[resource.ID] = resource
	s.byOwner[owner] = resource.ID

	return resource
}

// Get returns a live resource by ID. Revoked and expired resources yield
// domain.ErrPreviewNotFound.
func (s *Store) Get(id string) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resource, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPreviewNotFound
	}
	return resource, nil
}

// Current returns the owner's live resource, if any.
func (s *Store) Current(owner string) (*Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byOwner[owner]
	if !ok {
		return nil, false
	}
	resource, ok := s.byID[id]
	return resource, ok
}

// Remove revokes the owner's staged resource. Removing when nothing is
// staged is a no-op, so the file input can always be reset safely.
func (s *Store) Remove(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byOwner[owner]; ok {
		delete(s.byID, id)
		delete(s.byOwner, owner)
	}
}

// Len reports the number of live resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the janitor and revokes every live resource.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.byID = make(map[string]*Resource)
		s.byOwner = make(map[string]string)
	})
}

func (s *Store) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.expire()
		}
	}
}

func (s *Store) expire() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, resource := range s.byID {
		if resource.CreatedAt.Before(cutoff) {
			delete(s.byID, id)
			delete(s.byOwner, resource.Owner)
		}
	}
}
