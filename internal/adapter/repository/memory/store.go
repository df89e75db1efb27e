package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/iho/bookkeeper/internal/domain"
)

// store keeps values by ID in insertion order.
type store[T any] struct {
	mu       sync.RWMutex
	byID     map[string]T
	order    []string
	notFound error
}

func newStore[T any](notFound error) *store[T] {
	return &store[T]{
		byID:     make(map[string]T),
		notFound: notFound,
	}
}

func (s *store[T]) create(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
	}
	s.byID[id] = v
	s.order = append(s.order, id)

	return nil
}

func (s *store[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", s.notFound, id)
	}
	return v, nil
}

func (s *store[T]) list(ctx context.Context, limit, offset int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.order) {
		return []T{}, nil
	}

	end := len(s.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]T, 0, end-offset)
	for _, id := range s.order[offset:end] {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *store[T]) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", s.notFound, id)
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	return nil
}

func (s *store[T]) all(ctx context.Context) ([]T, error) {
	return s.list(ctx, 0, 0)
}
