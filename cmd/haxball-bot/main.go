package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiletexe/haxball-game/config"
	"github.com/adiletexe/haxball-game/game"
	"github.com/adiletexe/haxball-game/geom"
	"github.com/adiletexe/haxball-game/render"
	"github.com/adiletexe/haxball-game/session"
	"github.com/adiletexe/haxball-game/transport"
)

// A headless participant: hosts or joins a room and chases the ball.
// Useful for soaking the relay and for playing against yourself.

func main() {
	cfg := config.Load()

	relayURL := flag.String("relay", cfg.RelayURL, "relay websocket URL")
	room := flag.String("room", "", "room id to join; empty hosts a new room")
	name := flag.String("name", "bot", "player name")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	s := session.New(transport.NewRelayClient(*relayURL), &render.Debug{Every: 300})

	ctx, cancel := context.WithTimeout(context.Background(), transport.JoinTimeout)
	defer cancel()
	if *room == "" {
		if err := s.Host(ctx, *name); err != nil {
			log.Fatal().Err(err).Msg("hosting failed")
		}
		log.Info().Str("room", s.RoomID()).Msg("share this room id")
	} else {
		if err := s.Join(ctx, *room, *name); err != nil {
			log.Fatal().Err(err).Msg("join failed")
		}
	}

	go s.Run()
	defer s.Stop()

	if s.Role() == session.RoleHost {
		waitForOpponent(s)
		s.StartGame()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	steer := time.NewTicker(50 * time.Millisecond)
	defer steer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-steer.C:
			s.SetControls(chaseBall(s))
		}
	}
}

func waitForOpponent(s *session.Session) {
	for {
		if len(s.Snapshot().Players) >= 2 {
			log.Info().Msg("opponent arrived, starting game")
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// chaseBall steers toward the ball and kicks when in range.
func chaseBall(s *session.Session) session.Controls {
	gs := s.Snapshot()
	me, ok := gs.Players[s.LocalID()]
	if !ok || !gs.Playing {
		return session.Controls{}
	}

	delta := gs.Ball.Pos.Sub(me.Pos)
	const deadband = 4.0
	c := session.Controls{
		Input: game.Input{
			Left:  delta.X < -deadband,
			Right: delta.X > deadband,
			Up:    delta.Y < -deadband,
			Down:  delta.Y > deadband,
		},
	}
	if geom.Distance(me.Pos, gs.Ball.Pos) < game.PlayerRadius+game.BallRadius+game.KickRange {
		c.Kick = true
	}
	return c
}
