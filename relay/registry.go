// Package relay is the signaling server peers meet through: it keeps a
// registry of rooms and fans envelopes out between the peers of a room.
// It never inspects game payloads beyond basic range checks.
package relay

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/adiletexe/haxball-game/protocol"
)

var (
	errRoomTaken    = errors.New("room taken")
	errRoomNotFound = errors.New("room not found")
)

type peer struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) write(f protocol.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeGrace))
	return p.conn.WriteJSON(f)
}

func (p *peer) ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeGrace))
	return p.conn.WriteMessage(websocket.PingMessage, nil)
}

type room struct {
	id string

	mu    sync.Mutex
	peers map[string]*peer
}

// fanout forwards a frame to every peer except the sender, or to the
// named target only. The sender never gets its own message back.
func (r *room) fanout(f protocol.Frame) {
	r.mu.Lock()
	targets := make([]*peer, 0, len(r.peers))
	for id, p := range r.peers {
		if id == f.From {
			continue
		}
		if f.To != "" && id != f.To {
			continue
		}
		targets = append(targets, p)
	}
	r.mu.Unlock()

	for _, p := range targets {
		if err := p.write(f); err != nil {
			log.Debug().Str("peer", p.id).Err(err).Msg("fanout write failed")
		}
	}
}

// Registry holds all live rooms. Rooms exist from host registration
// until the last peer leaves.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

func (reg *Registry) create(roomID string, host *peer) (*room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, taken := reg.rooms[roomID]; taken {
		return nil, errRoomTaken
	}
	r := &room{id: roomID, peers: map[string]*peer{host.id: host}}
	reg.rooms[roomID] = r
	return r, nil
}

func (reg *Registry) join(roomID string, p *peer) (*room, error) {
	reg.mu.Lock()
	r, ok := reg.rooms[roomID]
	reg.mu.Unlock()
	if !ok {
		return nil, errRoomNotFound
	}
	r.mu.Lock()
	r.peers[p.id] = p
	r.mu.Unlock()
	return r, nil
}

// leave drops a peer, tells the rest, and removes the room when empty.
func (reg *Registry) leave(r *room, peerID string) {
	r.mu.Lock()
	delete(r.peers, peerID)
	empty := len(r.peers) == 0
	r.mu.Unlock()

	if empty {
		reg.mu.Lock()
		delete(reg.rooms, r.id)
		reg.mu.Unlock()
		return
	}
	r.fanout(protocol.Frame{Op: protocol.OpPeerLeft, From: peerID})
}

// RoomCount reports the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
