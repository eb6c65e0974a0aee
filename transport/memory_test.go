package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/adiletexe/haxball-game/protocol"
)

type recorder struct {
	ch chan struct {
		env  protocol.Envelope
		from string
	}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct {
		env  protocol.Envelope
		from string
	}, 16)}
}

func (r *recorder) handler(env protocol.Envelope, from string) {
	r.ch <- struct {
		env  protocol.Envelope
		from string
	}{env, from}
}

func (r *recorder) take(t *testing.T) (protocol.Envelope, string) {
	t.Helper()
	select {
	case got := <-r.ch:
		return got.env, got.from
	default:
		t.Fatalf("no message delivered")
		return protocol.Envelope{}, ""
	}
}

func (r *recorder) empty() bool { return len(r.ch) == 0 }

func setupRoom(t *testing.T) (hub *Hub, host, guest *MemPeer, hostRec, guestRec *recorder) {
	t.Helper()
	hub = NewHub()
	host, guest = hub.NewPeer(), hub.NewPeer()
	hostRec, guestRec = newRecorder(), newRecorder()
	host.SetHandler(hostRec.handler)
	guest.SetHandler(guestRec.handler)

	roomID, err := host.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if norm, err := protocol.NormalizeRoomID(roomID); err != nil || norm != roomID {
		t.Fatalf("room id %q not canonical: %v", roomID, err)
	}
	if host.SelfID() != roomID {
		t.Fatalf("host self id %q, want the room id %q", host.SelfID(), roomID)
	}
	if err := guest.JoinRoom(context.Background(), roomID); err != nil {
		t.Fatalf("join: %v", err)
	}
	return hub, host, guest, hostRec, guestRec
}

func TestNoLoopback(t *testing.T) {
	_, host, _, hostRec, guestRec := setupRoom(t)

	env, _ := protocol.Encode(protocol.MsgKick, protocol.Kick{ID: host.SelfID()})
	if err := host.Send(env, ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	got, from := guestRec.take(t)
	if got.Type != protocol.MsgKick || from != host.SelfID() {
		t.Fatalf("guest got %q from %q", got.Type, from)
	}
	// The contract: a sender never hears its own broadcast.
	if !hostRec.empty() {
		t.Fatalf("sender received its own message")
	}
}

func TestTargetedSend(t *testing.T) {
	hub, host, _, _, guestRec := setupRoom(t)

	third := hub.NewPeer()
	thirdRec := newRecorder()
	third.SetHandler(thirdRec.handler)
	if err := third.JoinRoom(context.Background(), host.SelfID()); err != nil {
		t.Fatalf("third join: %v", err)
	}

	env, _ := protocol.Encode(protocol.MsgScoreUpdate, protocol.ScoreState{Red: 1})
	if err := host.Send(env, third.SelfID()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, from := thirdRec.take(t); from != host.SelfID() {
		t.Fatalf("target got message from %q", from)
	}
	if !guestRec.empty() {
		t.Fatalf("non-target received a targeted message")
	}
}

func TestCloseSynthesizesLeave(t *testing.T) {
	_, _, guest, hostRec, _ := setupRoom(t)

	guestID := guest.SelfID()
	if err := guest.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	env, from := hostRec.take(t)
	if env.Type != protocol.MsgPlayerLeave || from != guestID {
		t.Fatalf("got %q from %q, want synthetic player-leave", env.Type, from)
	}
	pl, err := protocol.DecodePayload[protocol.PlayerLeave](env)
	if err != nil || pl.ID != guestID {
		t.Fatalf("leave payload = %+v (%v)", pl, err)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	hub := NewHub()
	p := hub.NewPeer()
	if err := p.JoinRoom(context.Background(), "hax-ABC123"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("got %v, want ErrRoomNotFound", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	_, host, _, _, _ := setupRoom(t)
	_ = host.Close()
	env, _ := protocol.Encode(protocol.MsgKick, protocol.Kick{ID: "x"})
	if err := host.Send(env, ""); !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}
