package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiletexe/haxball-game/protocol"
)

// RelayClient is the production Transport: one websocket to the relay,
// which fans envelopes out to the other peers in the room.
type RelayClient struct {
	relayURL string
	log      zerolog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	selfID  string
	handler Handler
	closed  bool

	acks chan protocol.Frame
}

var _ Transport = (*RelayClient)(nil)

func NewRelayClient(relayURL string) *RelayClient {
	return &RelayClient{
		relayURL: relayURL,
		log:      log.With().Str("component", "transport").Logger(),
		acks:     make(chan protocol.Frame, 4),
	}
}

func (c *RelayClient) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		return nil
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.relayURL, nil)
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", c.relayURL, err)
	}
	c.conn = conn
	go c.readLoop(conn)
	return nil
}

func (c *RelayClient) CreateRoom(ctx context.Context) (string, error) {
	if err := c.connect(ctx); err != nil {
		return "", err
	}
	for {
		// The client picks the id; the relay rejects collisions and we
		// silently try again with a fresh one.
		id := protocol.NewRoomID()
		if err := c.writeFrame(protocol.Frame{Op: protocol.OpCreate, Room: id, From: id}); err != nil {
			return "", err
		}
		ack, err := c.waitAck(ctx)
		if err != nil {
			return "", err
		}
		switch {
		case ack.Op == protocol.OpCreated:
			c.mu.Lock()
			c.selfID = id
			c.mu.Unlock()
			c.log.Info().Str("room", id).Msg("room created")
			return id, nil
		case ack.Op == protocol.OpError && ack.Code == protocol.CodeRoomTaken:
			c.log.Debug().Str("room", id).Msg("room id taken, regenerating")
			continue
		default:
			return "", fmt.Errorf("create room: relay error %q", ack.Code)
		}
	}
}

func (c *RelayClient) JoinRoom(ctx context.Context, roomID string) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, JoinTimeout)
		defer cancel()
	}
	if err := c.connect(ctx); err != nil {
		return err
	}

	id := uuid.NewString()
	if err := c.writeFrame(protocol.Frame{Op: protocol.OpJoin, Room: roomID, From: id}); err != nil {
		return err
	}
	ack, err := c.waitAck(ctx)
	if err != nil {
		return err
	}
	switch {
	case ack.Op == protocol.OpJoined:
		c.mu.Lock()
		c.selfID = id
		c.mu.Unlock()
		c.log.Info().Str("room", roomID).Str("self", id).Msg("joined room")
		return nil
	case ack.Op == protocol.OpError && ack.Code == protocol.CodeRoomNotFound:
		return fmt.Errorf("join %s: %w", roomID, ErrRoomNotFound)
	default:
		return fmt.Errorf("join %s: relay error %q", roomID, ack.Code)
	}
}

func (c *RelayClient) waitAck(ctx context.Context) (protocol.Frame, error) {
	select {
	case f, ok := <-c.acks:
		if !ok {
			return protocol.Frame{}, ErrClosed
		}
		return f, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return protocol.Frame{}, ErrJoinTimeout
		}
		return protocol.Frame{}, ctx.Err()
	}
}

func (c *RelayClient) SelfID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selfID
}

func (c *RelayClient) SetHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *RelayClient) Send(env protocol.Envelope, targetID string) error {
	return c.writeFrame(protocol.Frame{Op: protocol.OpSend, To: targetID, Env: &env})
}

func (c *RelayClient) writeFrame(f protocol.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.conn == nil {
		return ErrClosed
	}
	return c.conn.WriteJSON(f)
}

func (c *RelayClient) readLoop(conn *websocket.Conn) {
	for {
		var f protocol.Frame
		if err := conn.ReadJSON(&f); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.log.Warn().Err(err).Msg("relay connection lost")
			}
			return
		}
		switch f.Op {
		case protocol.OpMessage:
			if f.Env == nil {
				continue
			}
			c.dispatch(*f.Env, f.From)
		case protocol.OpPeerLeft:
			c.dispatch(LeaveEnvelope(f.From), f.From)
		case protocol.OpCreated, protocol.OpJoined, protocol.OpError:
			select {
			case c.acks <- f:
			default:
				c.log.Warn().Str("op", f.Op).Msg("dropping unexpected ack")
			}
		}
	}
}

func (c *RelayClient) dispatch(env protocol.Envelope, from string) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(env, from)
	}
}

func (c *RelayClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.selfID = ""
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
