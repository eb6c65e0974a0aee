// Package render declares the drawing contract the session calls into.
// Implementations are read-only observers; they must never mutate the
// world they are handed.
package render

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiletexe/haxball-game/game"
)

type Renderer interface {
	// Render draws one gameplay frame. Called once per tick.
	Render(w *game.World, localID string)

	// DrawLobby draws the roster screen while waiting for kickoff.
	DrawLobby(roomID string, players []*game.Player, isHost bool)
}

// Noop is the renderer for headless sessions and tests.
type Noop struct{}

func (Noop) Render(*game.World, string) {}

func (Noop) DrawLobby(string, []*game.Player, bool) {}

// Debug logs a coarse frame summary at intervals instead of drawing.
type Debug struct {
	Every int // frames between log lines, 0 means every 60
	count int
	log   zerolog.Logger
	init  bool
}

func (d *Debug) Render(w *game.World, localID string) {
	if !d.init {
		d.log = log.With().Str("component", "render").Logger()
		d.init = true
	}
	every := d.Every
	if every <= 0 {
		every = 60
	}
	d.count++
	if d.count%every != 0 {
		return
	}
	ev := d.log.Debug().
		Int("players", len(w.Players)).
		Float64("ball_x", w.Ball.Pos.X).
		Float64("ball_y", w.Ball.Pos.Y).
		Int("red", w.Score.Red).
		Int("blue", w.Score.Blue)
	if p, ok := w.Players[localID]; ok {
		ev = ev.Float64("x", p.Pos.X).Float64("y", p.Pos.Y)
	}
	ev.Msg("frame")
}

func (d *Debug) DrawLobby(roomID string, players []*game.Player, isHost bool) {
	if !d.init {
		d.log = log.With().Str("component", "render").Logger()
		d.init = true
	}
	d.log.Info().
		Str("room", roomID).
		Int("players", len(players)).
		Bool("host", isHost).
		Msg("lobby")
}
