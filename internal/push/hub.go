package push

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/BearBump/ParcelBox/internal/models"
)

// Подвисший клиент не должен задерживать рассылку остальным.
const peerWriteTimeout = 5 * time.Second

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

type peer struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

func newPeer(w io.Writer) *peer {
	return &peer{w: w, enc: json.NewEncoder(w)}
}

func (p *peer) send(ev messages.ParcelEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.w.(writeDeadliner); ok {
		_ = d.SetWriteDeadline(time.Now().Add(peerWriteTimeout))
	}
	return p.enc.Encode(ev)
}

// Hub раздаёт события подключённым клиентам. Группа "all" уходит всем,
// остальные — по членству в Registry. Доставка best-effort: ошибка записи
// одному подписчику не мешает остальным.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	peers    map[string]*peer
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		peers:    make(map[string]*peer),
	}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) addPeer(connID string, w io.Writer) *peer {
	p := newPeer(w)
	h.mu.Lock()
	h.peers[connID] = p
	h.mu.Unlock()
	return p
}

func (h *Hub) removePeer(connID string) {
	h.mu.Lock()
	delete(h.peers, connID)
	h.mu.Unlock()
	h.registry.Disconnect(connID)
}

// Deliver рассылает событие текущим членам группы (снапшот на момент вызова,
// опоздавшие подписчики событие не получают).
func (h *Hub) Deliver(ev messages.ParcelEvent) {
	var targets []*peer
	if ev.Group == messages.GroupAll {
		h.mu.Lock()
		targets = make([]*peer, 0, len(h.peers))
		for _, p := range h.peers {
			targets = append(targets, p)
		}
		h.mu.Unlock()
	} else {
		members := h.registry.MembersOf(ev.Group)
		h.mu.Lock()
		targets = make([]*peer, 0, len(members))
		for _, connID := range members {
			if p, ok := h.peers[connID]; ok {
				targets = append(targets, p)
			}
		}
		h.mu.Unlock()
	}

	for _, p := range targets {
		if err := p.send(ev); err != nil {
			slog.Warn("push delivery failed", "group", ev.Group, "event", ev.Event, "err", err)
		}
	}
}

// PublishToGroup/PublishToAll делают Hub нотификатором сервиса для
// однопроцессного развёртывания (без кафки между API и push).
func (h *Hub) PublishToGroup(ctx context.Context, group, event string, p *models.Parcel) error {
	h.Deliver(messages.NewParcelEvent(event, group, p))
	return nil
}

func (h *Hub) PublishToAll(ctx context.Context, event string, p *models.Parcel) error {
	h.Deliver(messages.NewParcelEvent(event, messages.GroupAll, p))
	return nil
}
