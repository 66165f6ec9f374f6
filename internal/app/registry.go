package app

import "github.com/Rizaski/walkietalkie/internal/domain"

// ConnectionRegistry is the authoritative map from connection id to its
// session record. It is a plain map wrapper with no lock of its own: the
// coordinator guards every call, so the join-with-implicit-leave sequence
// stays atomic across both registries.
type ConnectionRegistry struct {
	clients map[domain.ClientID]*domain.Client
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{clients: make(map[domain.ClientID]*domain.Client)}
}

// Upsert overwrites any existing record for the same id (rejoin path).
func (r *ConnectionRegistry) Upsert(c *domain.Client) {
	r.clients[c.ID] = c
}

func (r *ConnectionRegistry) Get(id domain.ClientID) (*domain.Client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

func (r *ConnectionRegistry) Remove(id domain.ClientID) {
	delete(r.clients, id)
}
