// Package session owns the world: every mutation of players, ball and
// score flows through the controller's named operations, driven by one
// goroutine that serializes ticks, local commands and network input.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiletexe/haxball-game/game"
	"github.com/adiletexe/haxball-game/protocol"
	"github.com/adiletexe/haxball-game/render"
	"github.com/adiletexe/haxball-game/transport"
)

// Role decides the permitted operation set: only the host integrates
// the ball, resolves collisions and scores. A guest's sole path to the
// ball is its outbound kick and update events.
type Role int

const (
	RoleGuest Role = iota
	RoleHost
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "guest"
}

// Phase is entered forward-only; the only way back to Menu is teardown.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseLobby
	PhasePlaying
)

// Controls is the local input device state for one frame.
type Controls struct {
	game.Input
	Kick bool
}

type inbound struct {
	env  protocol.Envelope
	from string
}

type Session struct {
	log  zerolog.Logger
	tr   transport.Transport
	rend render.Renderer

	inbox    chan inbound
	cmds     chan func()
	quit     chan struct{}
	stopOnce sync.Once

	// Everything below is owned by the loop goroutine after Run starts.
	role      Role
	phase     Phase
	roomID    string
	localID   string
	localName string
	world     *game.World
	controls  Controls
	prevKick  bool
	tick      int
	countdown int

	// Cosmetic kick flags expire at a tick, not on a wall-clock timer,
	// so tests can advance time by stepping.
	kickVisualUntil map[string]int
}

func New(tr transport.Transport, rend render.Renderer) *Session {
	if rend == nil {
		rend = render.Noop{}
	}
	s := &Session{
		log:             log.With().Str("component", "session").Logger(),
		tr:              tr,
		rend:            rend,
		inbox:           make(chan inbound, 256),
		cmds:            make(chan func(), 64),
		quit:            make(chan struct{}),
		phase:           PhaseMenu,
		world:           game.NewWorld(),
		kickVisualUntil: make(map[string]int),
	}
	// Dropping under backpressure is safe: every payload is an
	// idempotent overwrite, never a delta.
	tr.SetHandler(func(env protocol.Envelope, from string) {
		select {
		case s.inbox <- inbound{env: env, from: from}:
		default:
			s.log.Warn().Str("type", env.Type).Msg("inbox full, dropping message")
		}
	})
	return s
}

// Host creates a new room. The assigned room id becomes the local
// player id; the local player lands on the smaller team, ties red.
func (s *Session) Host(ctx context.Context, name string) error {
	if s.phase != PhaseMenu {
		return fmt.Errorf("host: already in a session")
	}
	roomID, err := s.tr.CreateRoom(ctx)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	s.role = RoleHost
	s.roomID = roomID
	s.localID = roomID
	s.localName = name
	s.world.Players[roomID] = &game.Player{
		ID:   roomID,
		Name: name,
		Team: s.world.SmallerTeam(),
	}
	s.phase = PhaseLobby
	s.log = s.log.With().Str("role", "host").Str("room", roomID).Logger()
	s.log.Info().Msg("hosting room")
	return nil
}

// Join enters an existing room as a guest. The raw id is normalized
// locally first, so empty or malformed input never touches the network.
// Transport failures leave the session in Menu.
func (s *Session) Join(ctx context.Context, rawRoomID, name string) error {
	if s.phase != PhaseMenu {
		return fmt.Errorf("join: already in a session")
	}
	roomID, err := protocol.NormalizeRoomID(rawRoomID)
	if err != nil {
		return err
	}
	if err := s.tr.JoinRoom(ctx, roomID); err != nil {
		return err
	}
	s.role = RoleGuest
	s.roomID = roomID
	s.localID = s.tr.SelfID()
	s.localName = name
	s.world.Players[s.localID] = &game.Player{
		ID:   s.localID,
		Name: name,
		Team: game.TeamBlue, // may switch before kickoff
	}
	s.phase = PhaseLobby
	s.broadcastJoin()
	s.log = s.log.With().Str("role", "guest").Str("room", roomID).Logger()
	s.log.Info().Msg("joined room")
	return nil
}

func (s *Session) switchTeam() {
	if s.phase != PhaseLobby {
		return
	}
	p := s.world.Players[s.localID]
	if p == nil {
		return
	}
	if p.Team == game.TeamRed {
		p.Team = game.TeamBlue
	} else {
		p.Team = game.TeamRed
	}
	s.broadcastJoin()
}

func (s *Session) startGame() {
	if s.role != RoleHost || s.phase != PhaseLobby {
		return
	}
	s.countdown = game.KickoffCountdownTicks
	s.world.ResetPositions()
	s.phase = PhasePlaying
	s.broadcastState("")
	s.log.Info().Int("countdown", s.countdown).Msg("game started")
}

// Run drives the fixed-step loop until Stop. Inbound messages and local
// commands interleave with ticks on this one goroutine.
func (s *Session) Run() {
	ticker := time.NewTicker(time.Second / game.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case in := <-s.inbox:
			s.handle(in.env, in.from)
		case cmd := <-s.cmds:
			cmd()
		case <-ticker.C:
			switch s.phase {
			case PhaseLobby:
				s.rend.DrawLobby(s.roomID, s.roster(), s.role == RoleHost)
			case PhasePlaying:
				s.step()
			}
		}
	}
}

// Stop tears the session down: loop halted, peers closed, identity gone.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if err := s.tr.Close(); err != nil {
			s.log.Debug().Err(err).Msg("transport close")
		}
		s.log.Info().Msg("session stopped")
	})
}

// do schedules fn on the loop goroutine.
func (s *Session) do(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.quit:
	}
}

// SetControls replaces the local input state read on the next tick.
func (s *Session) SetControls(c Controls) {
	s.do(func() { s.controls = c })
}

// SwitchTeam reassigns the local player's team while in the lobby.
func (s *Session) SwitchTeam() {
	s.do(s.switchTeam)
}

// StartGame begins play. Only the host may start; guests are bootstrapped
// by the host's snapshot.
func (s *Session) StartGame() {
	s.do(s.startGame)
}

// RoomID and LocalID are fixed before Run starts.
func (s *Session) RoomID() string  { return s.roomID }
func (s *Session) LocalID() string { return s.localID }
func (s *Session) Role() Role      { return s.role }

// Snapshot returns a wire-form copy of the world, safe to read while
// the loop runs.
func (s *Session) Snapshot() protocol.GameState {
	reply := make(chan protocol.GameState, 1)
	s.do(func() {
		reply <- protocol.Snapshot(s.world, s.phase == PhasePlaying, s.countdown)
	})
	select {
	case gs := <-reply:
		return gs
	case <-s.quit:
		return protocol.GameState{}
	}
}

func (s *Session) roster() []*game.Player {
	ids := s.sortedIDs()
	players := make([]*game.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, s.world.Players[id])
	}
	return players
}
