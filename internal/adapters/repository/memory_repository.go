package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

var _ domain.SnapshotRepository = (*InMemorySnapshotRepository)(nil)

// InMemorySnapshotRepository keeps the snapshot in process memory. It backs
// tests and the memory backend.
type InMemorySnapshotRepository struct {
	payload []byte
	present bool

	mu sync.RWMutex
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{}
}

func (r *InMemorySnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.present {
		return nil, domain.ErrSnapshotNotFound
	}
	out := make([]byte, len(r.payload))
	copy(out, r.payload)
	return out, nil
}

func (r *InMemorySnapshotRepository) Save(ctx context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payload = append([]byte(nil), payload...)
	r.present = true
	return nil
}

func (r *InMemorySnapshotRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payload = nil
	r.present = false
	return nil
}
