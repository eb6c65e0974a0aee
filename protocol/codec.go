package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Encode wraps a payload in an envelope stamped with the current time.
func Encode(msgType string, payload any) (Envelope, error) {
	if msgType == "" {
		return Envelope{}, fmt.Errorf("encode: empty message type")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return Envelope{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodePayload unmarshals the envelope's data into the requested type.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.Type)
	}
	err := json.Unmarshal(env.Data, &out)
	return out, err
}

// KnownType reports whether t is part of the game message protocol.
func KnownType(t string) bool {
	switch t {
	case MsgPlayerUpdate, MsgBallUpdate, MsgScoreUpdate,
		MsgPlayerJoin, MsgPlayerLeave, MsgGameState, MsgKick:
		return true
	}
	return false
}
