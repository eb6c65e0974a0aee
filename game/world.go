package game

import (
	"sort"

	"github.com/adiletexe/haxball-game/geom"
)

// Authoritative in-memory game state. Owned exclusively by the session
// controller; everything else reads it through snapshots.

type Team string

const (
	TeamNone Team = ""
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

type Player struct {
	ID           string
	Name         string
	Team         Team
	Pos          geom.Vector2
	Vel          geom.Vector2
	Kicking      bool
	KickCooldown int // ticks until the next kick is allowed
}

type Ball struct {
	Pos geom.Vector2
	Vel geom.Vector2
}

type Score struct {
	Red  int
	Blue int
}

// Input is the local movement intent for one tick.
type Input struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

type World struct {
	Players map[string]*Player
	Ball    Ball
	Score   Score
}

func NewWorld() *World {
	return &World{
		Players: make(map[string]*Player),
		Ball:    Ball{Pos: geom.V(FieldWidth/2, FieldHeight/2)},
	}
}

func (w *World) TeamCount(t Team) int {
	n := 0
	for _, p := range w.Players {
		if p.Team == t {
			n++
		}
	}
	return n
}

// SmallerTeam returns the team with fewer members, Red on ties.
func (w *World) SmallerTeam() Team {
	if w.TeamCount(TeamBlue) < w.TeamCount(TeamRed) {
		return TeamBlue
	}
	return TeamRed
}

// teamIDs returns the player ids of a team in a deterministic order.
func (w *World) teamIDs(t Team) []string {
	ids := make([]string, 0, len(w.Players))
	for id, p := range w.Players {
		if p.Team == t {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ResetPositions places every player at its kickoff spot (by team and
// slot index) and the ball at the field center, all velocities zeroed.
// Identical on every peer for identical rosters.
func (w *World) ResetPositions() {
	place := func(t Team, x float64) {
		ids := w.teamIDs(t)
		for i, id := range ids {
			p := w.Players[id]
			offset := float64(i-len(ids)/2) * (4 * PlayerRadius)
			p.Pos = geom.V(x, FieldHeight/2+offset)
			p.Vel = geom.Vector2{}
		}
	}
	place(TeamRed, FieldWidth/4)
	place(TeamBlue, 3*FieldWidth/4)
	w.Ball = Ball{Pos: geom.V(FieldWidth/2, FieldHeight/2)}
}
