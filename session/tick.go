package session

import (
	"sort"

	"github.com/adiletexe/haxball-game/game"
	"github.com/adiletexe/haxball-game/protocol"
)

// step advances exactly one tick of the Playing phase.
func (s *Session) step() {
	s.tick++
	s.expireKickVisuals()

	// Freeze period: no physics, but the host keeps everyone synced.
	if s.countdown > 0 {
		s.countdown--
		if s.role == RoleHost {
			s.broadcastState("")
		}
		s.rend.Render(s.world, s.localID)
		return
	}

	s.handleKickEdge()

	local := s.world.Players[s.localID]
	if local != nil {
		game.UpdatePlayer(local, s.controls.Input)
		s.broadcast(protocol.MsgPlayerUpdate, protocol.SnapshotPlayer(local))
	}

	if s.role == RoleHost {
		s.hostStep()
	}

	s.rend.Render(s.world, s.localID)
}

// hostStep is the authoritative part of the tick: ball integration,
// collision resolution and scoring. Guests never run this.
func (s *Session) hostStep() {
	game.UpdateBall(&s.world.Ball)

	ids := s.sortedIDs()
	for _, id := range ids {
		game.ResolvePlayerBall(s.world.Players[id], &s.world.Ball)
	}
	// O(n²) pairwise resolution; fine for a lobby-sized roster.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			game.ResolvePlayers(s.world.Players[ids[i]], s.world.Players[ids[j]])
		}
	}

	// Goal check must follow the ball update in the same tick, before
	// any wall handling next tick could hide the crossing.
	if team := game.CheckGoal(&s.world.Ball); team != game.TeamNone {
		s.applyGoal(team)
	}

	s.broadcast(protocol.MsgBallUpdate, protocol.BallState{
		Pos: s.world.Ball.Pos,
		Vel: s.world.Ball.Vel,
	})
}

func (s *Session) applyGoal(team game.Team) {
	if team == game.TeamRed {
		s.world.Score.Red++
	} else {
		s.world.Score.Blue++
	}
	s.log.Info().Str("team", string(team)).
		Int("red", s.world.Score.Red).Int("blue", s.world.Score.Blue).
		Msg("goal")
	s.broadcast(protocol.MsgScoreUpdate, protocol.ScoreState{
		Red:  s.world.Score.Red,
		Blue: s.world.Score.Blue,
	})
	// Reset immediately so the same crossing cannot score twice.
	s.world.ResetPositions()
	s.countdown = game.GoalCountdownTicks
}

// handleKickEdge fires on the key-down edge only. The kick envelope is
// always emitted so the host executes the physics for every player; the
// local flag and cooldown are optimistic cosmetics either way.
func (s *Session) handleKickEdge() {
	pressed := s.controls.Kick && !s.prevKick
	s.prevKick = s.controls.Kick
	if !pressed {
		return
	}
	local := s.world.Players[s.localID]
	if local == nil || local.KickCooldown > 0 {
		return
	}

	s.broadcast(protocol.MsgKick, protocol.Kick{ID: s.localID})
	if s.role == RoleHost {
		game.Kick(local, &s.world.Ball)
	}
	local.Kicking = true
	local.KickCooldown = game.KickCooldownTicks
	s.kickVisualUntil[s.localID] = s.tick + game.KickVisualTicks
}

func (s *Session) expireKickVisuals() {
	for id, until := range s.kickVisualUntil {
		if s.tick < until {
			continue
		}
		if p := s.world.Players[id]; p != nil {
			p.Kicking = false
		}
		delete(s.kickVisualUntil, id)
	}
}

func (s *Session) sortedIDs() []string {
	ids := make([]string, 0, len(s.world.Players))
	for id := range s.world.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Session) broadcast(msgType string, payload any) {
	s.sendTo(msgType, payload, "")
}

// broadcastState sends the full snapshot, to one peer or to everyone.
func (s *Session) broadcastState(targetID string) {
	s.sendTo(protocol.MsgGameState,
		protocol.Snapshot(s.world, s.phase == PhasePlaying, s.countdown), targetID)
}

func (s *Session) broadcastJoin() {
	p := s.world.Players[s.localID]
	if p == nil {
		return
	}
	s.broadcast(protocol.MsgPlayerJoin, protocol.SnapshotPlayer(p))
}

func (s *Session) sendTo(msgType string, payload any, targetID string) {
	env, err := protocol.Encode(msgType, payload)
	if err != nil {
		s.log.Error().Err(err).Str("type", msgType).Msg("encode failed")
		return
	}
	if err := s.tr.Send(env, targetID); err != nil {
		s.log.Debug().Err(err).Str("type", msgType).Msg("send failed")
	}
}
