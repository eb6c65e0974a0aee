package protocol

import "encoding/json"

// Game message types. Every payload is an idempotent overwrite, never a
// delta, so duplicate or late delivery is harmless.
const (
	MsgPlayerUpdate = "player-update"
	MsgBallUpdate   = "ball-update"
	MsgScoreUpdate  = "score-update"
	MsgPlayerJoin   = "player-join"
	MsgPlayerLeave  = "player-leave"
	MsgGameState    = "game-state"
	MsgKick         = "kick"
)

// Envelope is the unit of exchange between peers.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Relay control frame ops (client <-> relay, not peer <-> peer).
const (
	OpCreate   = "create"
	OpJoin     = "join"
	OpSend     = "send"
	OpCreated  = "created"
	OpJoined   = "joined"
	OpMessage  = "message"
	OpPeerLeft = "peer-left"
	OpError    = "error"
)

// Relay error codes carried in Frame.Code.
const (
	CodeRoomNotFound = "room-not-found"
	CodeRoomTaken    = "room-taken"
	CodeBadRequest   = "bad-request"
)

// Frame wraps relay control traffic. Env is only set for OpSend/OpMessage.
type Frame struct {
	Op   string    `json:"op"`
	Room string    `json:"room,omitempty"`
	From string    `json:"from,omitempty"`
	To   string    `json:"to,omitempty"`
	Code string    `json:"code,omitempty"`
	Env  *Envelope `json:"env,omitempty"`
}
