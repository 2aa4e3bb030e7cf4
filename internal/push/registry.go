package push

import "sync"

// Registry хранит членство соединений в группах. Только in-memory,
// живёт столько же, сколько процесс: после рестарта клиенты вступают заново.
type Registry struct {
	mu     sync.Mutex
	groups map[string]map[string]struct{}
	conns  map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[string]map[string]struct{}),
		conns:  make(map[string]map[string]struct{}),
	}
}

// Join идемпотентен: повторное вступление — no-op.
func (r *Registry) Join(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.groups[group] == nil {
		r.groups[group] = make(map[string]struct{})
	}
	r.groups[group][connID] = struct{}{}

	if r.conns[connID] == nil {
		r.conns[connID] = make(map[string]struct{})
	}
	r.conns[connID][group] = struct{}{}
}

// Leave идемпотентен: выход из чужой группы — no-op.
func (r *Registry) Leave(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, group)
}

// Disconnect убирает соединение из всех его групп.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for group := range r.conns[connID] {
		r.leaveLocked(connID, group)
	}
	delete(r.conns, connID)
}

func (r *Registry) leaveLocked(connID, group string) {
	if members := r.groups[group]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.groups, group)
		}
	}
	if groups := r.conns[connID]; groups != nil {
		delete(groups, group)
		if len(groups) == 0 {
			delete(r.conns, connID)
		}
	}
}

// MembersOf возвращает снапшот участников группы на момент вызова.
func (r *Registry) MembersOf(group string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.groups[group]))
	for connID := range r.groups[group] {
		out = append(out, connID)
	}
	return out
}

// GroupCount — число непустых групп (для диагностики).
func (r *Registry) GroupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

// Groups возвращает группы соединения (для диагностики).
func (r *Registry) Groups(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.conns[connID]))
	for group := range r.conns[connID] {
		out = append(out, group)
	}
	return out
}
