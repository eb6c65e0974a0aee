package protocol

import (
	"github.com/adiletexe/haxball-game/game"
	"github.com/adiletexe/haxball-game/geom"
)

// PlayerState is the wire form of one player, used by join, update and
// snapshot messages alike.
type PlayerState struct {
	ID      string       `json:"id"`
	Name    string       `json:"name,omitempty"`
	Team    game.Team    `json:"team"`
	Pos     geom.Vector2 `json:"pos"`
	Vel     geom.Vector2 `json:"vel"`
	Kicking bool         `json:"kicking,omitempty"`
}

type BallState struct {
	Pos geom.Vector2 `json:"pos"`
	Vel geom.Vector2 `json:"vel"`
}

type ScoreState struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

type PlayerLeave struct {
	ID string `json:"id"`
}

type Kick struct {
	ID string `json:"id"`
}

// GameState is the host's full snapshot: wholesale replacement of the
// receiver's world. Playing=true bootstraps a guest still in the lobby.
type GameState struct {
	Players   map[string]PlayerState `json:"players"`
	Ball      BallState              `json:"ball"`
	Score     ScoreState             `json:"score"`
	Playing   bool                   `json:"playing"`
	Countdown int                    `json:"countdown"`
}

// SnapshotPlayer converts a world player to its wire form.
func SnapshotPlayer(p *game.Player) PlayerState {
	return PlayerState{
		ID:      p.ID,
		Name:    p.Name,
		Team:    p.Team,
		Pos:     p.Pos,
		Vel:     p.Vel,
		Kicking: p.Kicking,
	}
}

// Snapshot captures the entire world in wire form.
func Snapshot(w *game.World, playing bool, countdown int) GameState {
	gs := GameState{
		Players:   make(map[string]PlayerState, len(w.Players)),
		Ball:      BallState{Pos: w.Ball.Pos, Vel: w.Ball.Vel},
		Score:     ScoreState{Red: w.Score.Red, Blue: w.Score.Blue},
		Playing:   playing,
		Countdown: countdown,
	}
	for id, p := range w.Players {
		gs.Players[id] = SnapshotPlayer(p)
	}
	return gs
}
