package transport

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/adiletexe/haxball-game/protocol"
)

// Hub is an in-process Transport fabric with the same delivery contract
// as the relay: ordered per link, no loopback, synthetic leave on close.
// Used by tests and by same-process sessions.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[string]*MemPeer
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*MemPeer)}
}

// NewPeer returns an unconnected peer attached to this hub.
func (h *Hub) NewPeer() *MemPeer {
	return &MemPeer{hub: h}
}

func (h *Hub) register(roomID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, taken := h.rooms[roomID]; taken {
		return ErrRoomTaken
	}
	h.rooms[roomID] = make(map[string]*MemPeer)
	return nil
}

// Reserve marks a room id as taken without a peer. Test hook for the
// collision-retry path.
func (h *Hub) Reserve(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*MemPeer)
	}
}

type MemPeer struct {
	hub *Hub

	mu      sync.Mutex
	selfID  string
	roomID  string
	handler Handler
	closed  bool
}

var _ Transport = (*MemPeer)(nil)

func (p *MemPeer) CreateRoom(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id := protocol.NewRoomID()
		if err := p.hub.register(id); err != nil {
			continue // id taken, regenerate silently
		}
		p.hub.mu.Lock()
		p.hub.rooms[id][id] = p
		p.hub.mu.Unlock()

		p.mu.Lock()
		p.selfID = id
		p.roomID = id
		p.mu.Unlock()
		return id, nil
	}
}

func (p *MemPeer) JoinRoom(ctx context.Context, roomID string) error {
	if err := ctx.Err(); err != nil {
		return ErrJoinTimeout
	}
	p.hub.mu.Lock()
	room, ok := p.hub.rooms[roomID]
	if !ok {
		p.hub.mu.Unlock()
		return ErrRoomNotFound
	}
	id := uuid.NewString()
	room[id] = p
	p.hub.mu.Unlock()

	p.mu.Lock()
	p.selfID = id
	p.roomID = roomID
	p.mu.Unlock()
	return nil
}

func (p *MemPeer) SelfID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selfID
}

func (p *MemPeer) SetHandler(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

func (p *MemPeer) Send(env protocol.Envelope, targetID string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	self, roomID := p.selfID, p.roomID
	p.mu.Unlock()

	p.hub.mu.Lock()
	room := p.hub.rooms[roomID]
	peers := make(map[string]*MemPeer, len(room))
	for id, peer := range room {
		peers[id] = peer
	}
	p.hub.mu.Unlock()

	for id, peer := range peers {
		if id == self {
			continue // no loopback
		}
		if targetID != "" && id != targetID {
			continue
		}
		peer.deliver(env, self)
	}
	return nil
}

func (p *MemPeer) deliver(env protocol.Envelope, from string) {
	p.mu.Lock()
	h := p.handler
	closed := p.closed
	p.mu.Unlock()
	if closed || h == nil {
		return
	}
	h(env, from)
}

func (p *MemPeer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	self, roomID := p.selfID, p.roomID
	p.mu.Unlock()

	if roomID == "" {
		return nil
	}
	p.hub.mu.Lock()
	room := p.hub.rooms[roomID]
	delete(room, self)
	empty := len(room) == 0
	if empty {
		delete(p.hub.rooms, roomID)
	}
	rest := make([]*MemPeer, 0, len(room))
	for _, peer := range room {
		rest = append(rest, peer)
	}
	p.hub.mu.Unlock()

	env := LeaveEnvelope(self)
	for _, peer := range rest {
		peer.deliver(env, self)
	}
	return nil
}
