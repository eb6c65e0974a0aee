// Package transport establishes the peer session and moves envelopes
// between participants. Delivery is reliable and ordered per peer link;
// there is no cross-peer ordering and no loopback: a sent message is
// never delivered back to its own sender.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/adiletexe/haxball-game/protocol"
)

const JoinTimeout = 15 * time.Second

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomTaken    = errors.New("room id already taken")
	ErrJoinTimeout  = errors.New("timed out waiting for the room")
	ErrClosed       = errors.New("transport is closed")
)

// Handler receives inbound envelopes. Peer disconnects arrive as
// synthetic player-leave envelopes.
type Handler func(env protocol.Envelope, from string)

type Transport interface {
	// CreateRoom registers a fresh room and returns its canonical id,
	// which doubles as the local peer id. Id collisions are retried
	// transparently with a regenerated id.
	CreateRoom(ctx context.Context) (string, error)

	// JoinRoom connects to an existing room by canonical id. Reports
	// ErrRoomNotFound, ErrJoinTimeout, or a generic connection error.
	JoinRoom(ctx context.Context, roomID string) error

	// SelfID is the local peer id, empty before CreateRoom/JoinRoom.
	SelfID() string

	// Send broadcasts env to every other peer, or to targetID only when
	// it is non-empty. The sender never receives its own message.
	Send(env protocol.Envelope, targetID string) error

	SetHandler(Handler)

	Close() error
}

// LeaveEnvelope builds the synthetic player-leave delivered when a peer
// drops without saying goodbye.
func LeaveEnvelope(peerID string) protocol.Envelope {
	env, _ := protocol.Encode(protocol.MsgPlayerLeave, protocol.PlayerLeave{ID: peerID})
	return env
}
