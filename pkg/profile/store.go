package profile

import (
	"context"
	"sync"
)

// Persistence is the storage the store reads and writes through. Load
// returning (nil, nil) means no stored profile yet.
type Persistence interface {
	Load(ctx context.Context, userId string) (*Profile, error)
	Save(ctx context.Context, userId string, p *Profile) error
	Delete(ctx context.Context, userId string) error
}

// Store is the process-wide profile service. All updates go through a single
// read-modify-write critical section so concurrent analyze results from
// different sessions never lose each other's tags.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
}

func NewStore(persistence Persistence) *Store {
	return &Store{persistence: persistence}
}

// Get returns the current profile, or an empty default when none is stored.
func (s *Store) Get(ctx context.Context, userId string) (*Profile, error) {
	p, err := s.persistence.Load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &Profile{}, nil
	}
	return p.Clone(), nil
}

// Update merges the delta into the stored profile atomically and returns the
// merged result. An empty delta is a no-op.
func (s *Store) Update(ctx context.Context, userId string, delta Delta) (*Profile, error) {
	if delta.IsEmpty() {
		return s.Get(ctx, userId)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.persistence.Load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &Profile{}
	}
	p.Merge(delta)
	if err := s.persistence.Save(ctx, userId, p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Reset drops the stored profile entirely.
func (s *Store) Reset(ctx context.Context, userId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistence.Delete(ctx, userId)
}
