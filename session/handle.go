package session

import (
	"github.com/adiletexe/haxball-game/game"
	"github.com/adiletexe/haxball-game/protocol"
)

// handle applies one inbound envelope. Reconciliation policy: remote
// entities are overwritten wholesale, the local player never is — its
// movement stays self-authoritative.
func (s *Session) handle(env protocol.Envelope, from string) {
	switch env.Type {
	case protocol.MsgPlayerJoin:
		s.handleJoin(env, from)
	case protocol.MsgPlayerLeave:
		s.handleLeave(env)
	case protocol.MsgPlayerUpdate:
		s.handlePlayerUpdate(env)
	case protocol.MsgBallUpdate:
		s.handleBallUpdate(env)
	case protocol.MsgScoreUpdate:
		s.handleScoreUpdate(env)
	case protocol.MsgGameState:
		s.handleGameState(env)
	case protocol.MsgKick:
		s.handleKick(env)
	default:
		s.log.Debug().Str("type", env.Type).Msg("ignoring unknown message")
	}
}

func (s *Session) handleJoin(env protocol.Envelope, from string) {
	ps, err := protocol.DecodePayload[protocol.PlayerState](env)
	if err != nil || ps.ID == "" || ps.ID == s.localID {
		return
	}
	s.upsertPlayer(ps)
	s.log.Info().Str("peer", ps.ID).Str("name", ps.Name).Msg("player joined")

	// Late-join catch-up: the host pushes the newcomer a full snapshot.
	if s.role == RoleHost {
		s.broadcastState(from)
	}
}

func (s *Session) handleLeave(env protocol.Envelope) {
	pl, err := protocol.DecodePayload[protocol.PlayerLeave](env)
	if err != nil || pl.ID == s.localID {
		return
	}
	delete(s.world.Players, pl.ID)
	delete(s.kickVisualUntil, pl.ID)
	s.log.Info().Str("peer", pl.ID).Msg("player left")
}

func (s *Session) handlePlayerUpdate(env protocol.Envelope) {
	ps, err := protocol.DecodePayload[protocol.PlayerState](env)
	if err != nil || ps.ID == "" || ps.ID == s.localID {
		return // never overwrite the local player from the network
	}
	s.upsertPlayer(ps)
}

func (s *Session) handleBallUpdate(env protocol.Envelope) {
	if s.role == RoleHost {
		// The host originates ball updates; consuming an echo or a
		// stale one would fight its own integration.
		return
	}
	bs, err := protocol.DecodePayload[protocol.BallState](env)
	if err != nil {
		return
	}
	s.world.Ball = game.Ball{Pos: bs.Pos, Vel: bs.Vel}
}

func (s *Session) handleScoreUpdate(env protocol.Envelope) {
	sc, err := protocol.DecodePayload[protocol.ScoreState](env)
	if err != nil {
		return
	}
	s.world.Score = game.Score{Red: sc.Red, Blue: sc.Blue}
}

// handleGameState replaces the world with the host's snapshot. A guest
// still in the lobby transitions to Playing here — this is the only way
// a guest's simulation starts.
func (s *Session) handleGameState(env protocol.Envelope) {
	gs, err := protocol.DecodePayload[protocol.GameState](env)
	if err != nil {
		return
	}
	players := make(map[string]*game.Player, len(gs.Players))
	for id, ps := range gs.Players {
		players[id] = &game.Player{
			ID:      id,
			Name:    ps.Name,
			Team:    ps.Team,
			Pos:     ps.Pos,
			Vel:     ps.Vel,
			Kicking: ps.Kicking,
		}
	}
	s.world.Players = players
	s.world.Ball = game.Ball{Pos: gs.Ball.Pos, Vel: gs.Ball.Vel}
	s.world.Score = game.Score{Red: gs.Score.Red, Blue: gs.Score.Blue}
	s.countdown = gs.Countdown

	if gs.Playing && s.phase == PhaseLobby {
		s.phase = PhasePlaying
		s.log.Info().Int("countdown", s.countdown).Msg("play started by host")
	}
}

// handleKick marks the kicker's visual flag for everyone; on the host it
// additionally executes the kick physics with the extended range that
// compensates for the staleness of the remote player's position.
func (s *Session) handleKick(env protocol.Envelope) {
	k, err := protocol.DecodePayload[protocol.Kick](env)
	if err != nil || k.ID == "" || k.ID == s.localID {
		// The transport never loops a message back to its sender; the
		// self check is the explicit guard should that contract change.
		return
	}
	p := s.world.Players[k.ID]
	if p == nil {
		return
	}
	p.Kicking = true
	s.kickVisualUntil[k.ID] = s.tick + game.KickVisualTicks

	if s.role == RoleHost {
		game.KickExtended(p, &s.world.Ball)
	}
}

func (s *Session) upsertPlayer(ps protocol.PlayerState) {
	p := s.world.Players[ps.ID]
	if p == nil {
		p = &game.Player{ID: ps.ID}
		s.world.Players[ps.ID] = p
	}
	if ps.Name != "" {
		p.Name = ps.Name
	}
	p.Team = ps.Team
	p.Pos = ps.Pos
	p.Vel = ps.Vel // zero when absent from the payload
	p.Kicking = ps.Kicking
}
