package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns one Store per cart owner. It is created once at startup and
// handed to the HTTP layer; carts live as long as the process.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

func UserOwner(id uuid.UUID) string { return "user:" + id.String() }

func DeviceOwner(device string) string { return "device:" + device }

func (r *Registry) For(owner string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[owner]
	if !ok {
		s = NewStore()
		r.stores[owner] = s
	}
	return s
}
