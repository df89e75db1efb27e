package domain

import (
	"fmt"
	"slices"
	"sync"
)

// Well-known attribute keys.
const (
	AttrNarration = "narration"
	AttrReference = "reference"
)

// Attributes is free-form metadata attached to accounts and entries.
// Each key may be written once; after Seal no key may be written at all.
// A nil *Attributes behaves as an empty, sealed container.
type Attributes struct {
	mu     sync.RWMutex
	values map[string]any
	sealed bool
}

// NewAttributes copies values into a new open container.
func NewAttributes(values map[string]any) *Attributes {
	a := &Attributes{values: make(map[string]any, len(values))}
	for k, v := range values {
		a.values[k] = v
	}
	return a
}

// Set enters a value once. Keys cannot be overwritten and sealed containers refuse writes.
func (a *Attributes) Set(key string, value any) error {
	if a == nil {
		return fmt.Errorf("%w: attribute %q on nil attributes", ErrImmutable, key)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sealed {
		return fmt.Errorf("%w: attributes are sealed, cannot set %q", ErrImmutable, key)
	}
	if _, ok := a.values[key]; ok {
		return fmt.Errorf("%w: attribute %q already set", ErrImmutable, key)
	}
	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.values[key] = value

	return nil
}

// Get returns the value for key or ErrUnenteredAttribute.
func (a *Attributes) Get(key string) (any, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnenteredAttribute, key)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnenteredAttribute, key)
	}
	return v, nil
}

// Has reports whether key has been entered.
func (a *Attributes) Has(key string) bool {
	_, err := a.Get(key)
	return err == nil
}

// Keys returns the entered keys in sorted order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of entered keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.values)
}

// Seal closes the container to further writes. Sealing twice is harmless.
func (a *Attributes) Seal() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.sealed = true
	a.mu.Unlock()
}

// Sealed reports whether the container refuses writes. A nil container is sealed.
func (a *Attributes) Sealed() bool {
	if a == nil {
		return true
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sealed
}

// AttributeOf fetches a typed attribute.
func AttributeOf[T any](a *Attributes, key string) (T, error) {
	var zero T

	v, err := a.Get(key)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, not %T", ErrAttributeType, key, v, zero)
	}
	return typed, nil
}

// StringAttribute returns the attribute as a string, or "" when absent or not a string.
func StringAttribute(a *Attributes, key string) string {
	s, _ := AttributeOf[string](a, key)
	return s
}
