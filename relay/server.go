package relay

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/adiletexe/haxball-game/protocol"
)

const (
	maxFrameBytes = 32 << 10
	readGrace     = 60 * time.Second
	pingEvery     = 25 * time.Second
	writeGrace    = 10 * time.Second

	// Generous for a 60 Hz game; only runaway senders trip it.
	inboundRate  = 150
	inboundBurst = 300
)

type Server struct {
	reg      *Registry
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewServer() *Server {
	return &Server{
		reg: NewRegistry(),
		upgrader: websocket.Upgrader{
			// The relay sits behind a TLS-terminating proxy; origin
			// policy is enforced there.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "relay").Logger(),
	}
}

// Routes mounts the websocket endpoint and the health check. Paths are
// configuration so the relay can live under any proxy prefix.
func (s *Server) Routes(mux *http.ServeMux, wsPath, healthPath string) {
	mux.HandleFunc(wsPath, s.handleWS)
	mux.HandleFunc(healthPath, s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(readGrace))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readGrace))
	})

	// All writes to this connection funnel through one peer so fanout
	// from other read loops, pings and error replies never interleave.
	p := &peer{conn: conn}

	done := make(chan struct{})
	defer close(done)
	go pingLoop(p, done)

	var (
		rm  *room
		lim = rate.NewLimiter(rate.Limit(inboundRate), inboundBurst)
	)
	defer func() {
		if rm != nil {
			s.reg.leave(rm, p.id)
			s.log.Info().Str("room", rm.id).Str("peer", p.id).Msg("peer left")
		}
	}()

	for {
		var f protocol.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readGrace))
		if !lim.Allow() {
			s.log.Warn().Msg("dropping connection: rate limit exceeded")
			return
		}

		switch f.Op {
		case protocol.OpCreate:
			if rm != nil {
				s.reject(p, protocol.CodeBadRequest)
				continue
			}
			if _, err := protocol.NormalizeRoomID(f.Room); err != nil || f.From != f.Room {
				s.reject(p, protocol.CodeBadRequest)
				continue
			}
			p.id = f.Room
			created, err := s.reg.create(f.Room, p)
			if err != nil {
				s.reject(p, protocol.CodeRoomTaken)
				continue
			}
			rm = created
			_ = p.write(protocol.Frame{Op: protocol.OpCreated, Room: rm.id})
			s.log.Info().Str("room", rm.id).Msg("room created")

		case protocol.OpJoin:
			if rm != nil || f.From == "" {
				s.reject(p, protocol.CodeBadRequest)
				continue
			}
			p.id = f.From
			joined, err := s.reg.join(f.Room, p)
			if err != nil {
				s.reject(p, protocol.CodeRoomNotFound)
				continue
			}
			rm = joined
			_ = p.write(protocol.Frame{Op: protocol.OpJoined, Room: rm.id})
			s.log.Info().Str("room", rm.id).Str("peer", p.id).Msg("peer joined")

		case protocol.OpSend:
			if rm == nil || f.Env == nil || !protocol.KnownType(f.Env.Type) {
				s.reject(p, protocol.CodeBadRequest)
				continue
			}
			rm.fanout(protocol.Frame{
				Op:   protocol.OpMessage,
				From: p.id,
				To:   f.To,
				Env:  f.Env,
			})

		default:
			s.reject(p, protocol.CodeBadRequest)
		}
	}
}

func (s *Server) reject(p *peer, code string) {
	_ = p.write(protocol.Frame{Op: protocol.OpError, Code: code})
}

func pingLoop(p *peer, done <-chan struct{}) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := p.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
