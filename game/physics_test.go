package game

import (
	"math"
	"testing"

	"github.com/adiletexe/haxball-game/geom"
)

func TestUpdatePlayerStaysInBounds(t *testing.T) {
	// Every input combination, held for a long time, from a corner.
	for mask := 0; mask < 16; mask++ {
		in := Input{
			Up:    mask&1 != 0,
			Down:  mask&2 != 0,
			Left:  mask&4 != 0,
			Right: mask&8 != 0,
		}
		p := &Player{ID: "p", Pos: geom.V(PlayerRadius, PlayerRadius)}
		for i := 0; i < 600; i++ {
			UpdatePlayer(p, in)
			if p.Pos.X < PlayerRadius || p.Pos.X > FieldWidth-PlayerRadius ||
				p.Pos.Y < PlayerRadius || p.Pos.Y > FieldHeight-PlayerRadius {
				t.Fatalf("input %+v tick %d: position %v out of bounds", in, i, p.Pos)
			}
		}
	}
}

func TestUpdatePlayerDiagonalNotFaster(t *testing.T) {
	straight := &Player{ID: "a", Pos: geom.V(FieldWidth/2, FieldHeight/2)}
	diagonal := &Player{ID: "b", Pos: geom.V(FieldWidth/2, FieldHeight/2)}
	for i := 0; i < 120; i++ {
		UpdatePlayer(straight, Input{Right: true})
		UpdatePlayer(diagonal, Input{Right: true, Down: true})
	}
	if diagonal.Vel.Magnitude() > straight.Vel.Magnitude()+1e-9 {
		t.Fatalf("diagonal speed %v exceeds straight speed %v",
			diagonal.Vel.Magnitude(), straight.Vel.Magnitude())
	}
	if straight.Vel.Magnitude() > PlayerSpeed {
		t.Fatalf("speed %v exceeds cap %v", straight.Vel.Magnitude(), PlayerSpeed)
	}
}

func TestUpdatePlayerDecrementsCooldown(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(100, 100), KickCooldown: 2}
	UpdatePlayer(p, Input{})
	if p.KickCooldown != 1 {
		t.Fatalf("cooldown = %d, want 1", p.KickCooldown)
	}
	UpdatePlayer(p, Input{})
	UpdatePlayer(p, Input{})
	if p.KickCooldown != 0 {
		t.Fatalf("cooldown = %d, want 0 (must not go negative)", p.KickCooldown)
	}
}

func TestUpdateBallStopsBelowThreshold(t *testing.T) {
	b := &Ball{Pos: geom.V(FieldWidth/2, FieldHeight/2), Vel: geom.V(0.05, 0)}
	UpdateBall(b)
	if !b.Vel.IsZero() {
		t.Fatalf("expected micro-drift snap to zero, got %v", b.Vel)
	}
}

func TestUpdateBallReflectsOffWalls(t *testing.T) {
	b := &Ball{Pos: geom.V(FieldWidth/2, BallRadius+1), Vel: geom.V(0, -5)}
	UpdateBall(b)
	if b.Vel.Y <= 0 {
		t.Fatalf("expected downward reflection off top wall, vel %v", b.Vel)
	}
	if math.Abs(b.Vel.Y-5*WallRestitution*BallFriction) > 1e-9 {
		t.Fatalf("restitution off: vy = %v", b.Vel.Y)
	}

	// Outside the goal band the side walls reflect too.
	b = &Ball{Pos: geom.V(BallRadius+1, BallRadius+5), Vel: geom.V(-5, 0)}
	UpdateBall(b)
	if b.Vel.X <= 0 || b.Pos.X < BallRadius {
		t.Fatalf("expected reflection off left wall, pos %v vel %v", b.Pos, b.Vel)
	}
}

func TestUpdateBallPassesThroughGoalMouth(t *testing.T) {
	// Inside the band the ball must be left alone so CheckGoal can see it.
	b := &Ball{Pos: geom.V(BallRadius+1, FieldHeight/2), Vel: geom.V(-5, 0)}
	UpdateBall(b)
	if b.Vel.X >= 0 {
		t.Fatalf("ball must keep moving into the goal, vel %v", b.Vel)
	}
	for i := 0; i < 10; i++ {
		UpdateBall(b)
	}
	if got := CheckGoal(b); got != TeamBlue {
		t.Fatalf("CheckGoal = %q, want blue after crossing left goal line", got)
	}
}

func TestCheckGoalRequiresBand(t *testing.T) {
	outside := &Ball{Pos: geom.V(-1, FieldHeight/2+GoalWidth/2+1)}
	if got := CheckGoal(outside); got != TeamNone {
		t.Fatalf("goal outside band = %q, want none", got)
	}
	center := &Ball{Pos: geom.V(FieldWidth/2, FieldHeight/2)}
	if got := CheckGoal(center); got != TeamNone {
		t.Fatalf("goal at center = %q, want none", got)
	}
	right := &Ball{Pos: geom.V(FieldWidth+1, FieldHeight/2)}
	if got := CheckGoal(right); got != TeamRed {
		t.Fatalf("goal in right mouth = %q, want red", got)
	}
}

func TestCheckGoalIsIdempotent(t *testing.T) {
	b := &Ball{Pos: geom.V(-5, FieldHeight/2)}
	if CheckGoal(b) != TeamBlue || CheckGoal(b) != TeamBlue {
		t.Fatalf("repeated query on unmoved ball must keep reporting the goal")
	}
	if b.Pos.X != -5 || !b.Vel.IsZero() {
		t.Fatalf("CheckGoal must not mutate the ball")
	}
}

func TestKickOnCooldownIsNoop(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(100, 100), KickCooldown: 5}
	b := &Ball{Pos: geom.V(110, 100), Vel: geom.V(1, 0)}
	if Kick(p, b) {
		t.Fatalf("kick on cooldown must fail")
	}
	if b.Vel != geom.V(1, 0) {
		t.Fatalf("failed kick must not touch ball velocity, got %v", b.Vel)
	}
}

func TestKickOutOfRangeIsNoop(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(100, 100)}
	b := &Ball{Pos: geom.V(100+PlayerRadius+BallRadius+KickRange+1, 100)}
	if Kick(p, b) {
		t.Fatalf("kick out of range must fail")
	}
	if !b.Vel.IsZero() {
		t.Fatalf("failed kick must not touch ball velocity")
	}
}

func TestKickAddsExactForceAlongNormal(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(100, 100)}
	b := &Ball{Pos: geom.V(130, 100)}
	if !Kick(p, b) {
		t.Fatalf("in-range kick must succeed")
	}
	if math.Abs(b.Vel.X-KickForce) > 1e-9 || math.Abs(b.Vel.Y) > 1e-9 {
		t.Fatalf("kick impulse = %v, want (%v, 0)", b.Vel, KickForce)
	}
	if p.KickCooldown != KickCooldownTicks {
		t.Fatalf("cooldown = %d, want %d", p.KickCooldown, KickCooldownTicks)
	}
	if !p.Kicking {
		t.Fatalf("kick must raise the kicking flag")
	}
}

func TestKickExtendedRangeAndCooldown(t *testing.T) {
	// A distance plain Kick rejects but KickExtended accepts.
	dist := 100 + PlayerRadius + BallRadius + KickRange + 20
	p := &Player{ID: "p", Pos: geom.V(100, 100), KickCooldown: KickCooldownTicks}
	b := &Ball{Pos: geom.V(dist, 100)}
	if Kick(p, b) {
		t.Fatalf("plain kick must fail at extended distance")
	}
	if !KickExtended(p, b) {
		t.Fatalf("extended kick must succeed despite distance and cooldown")
	}
	if math.Abs(b.Vel.Magnitude()-KickForce) > 1e-9 {
		t.Fatalf("extended kick impulse = %v, want %v", b.Vel.Magnitude(), KickForce)
	}
}

func TestResolvePlayersSeparatesAndStopsApproach(t *testing.T) {
	p1 := &Player{ID: "a", Pos: geom.V(200, 200), Vel: geom.V(2, 0)}
	p2 := &Player{ID: "b", Pos: geom.V(200+PlayerRadius, 200), Vel: geom.V(-2, 0)}
	ResolvePlayers(p1, p2)

	if d := geom.Distance(p1.Pos, p2.Pos); math.Abs(d-2*PlayerRadius) > 1e-9 {
		t.Fatalf("post-resolution distance = %v, want %v", d, 2*PlayerRadius)
	}
	normal := p2.Pos.Sub(p1.Pos).Normalize()
	if approach := p1.Vel.Sub(p2.Vel).Dot(normal); approach > 1e-9 {
		t.Fatalf("players still approaching after resolution: %v", approach)
	}
}

func TestResolvePlayersSkipsSeparating(t *testing.T) {
	p1 := &Player{ID: "a", Pos: geom.V(200, 200), Vel: geom.V(-2, 0)}
	p2 := &Player{ID: "b", Pos: geom.V(200+PlayerRadius, 200), Vel: geom.V(2, 0)}
	ResolvePlayers(p1, p2)
	// Overlap is corrected but already-separating velocities stay put.
	if p1.Vel != geom.V(-2, 0) || p2.Vel != geom.V(2, 0) {
		t.Fatalf("separating players must keep their velocities: %v %v", p1.Vel, p2.Vel)
	}
}

func TestResolvePlayerBallPushesOutWithMargin(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(300, 300), Vel: geom.V(3, 0)}
	b := &Ball{Pos: geom.V(310, 300)}
	if !ResolvePlayerBall(p, b) {
		t.Fatalf("overlapping ball must collide")
	}
	want := PlayerRadius + BallRadius + SeparationMargin
	if d := geom.Distance(p.Pos, b.Pos); math.Abs(d-want) > 1e-9 {
		t.Fatalf("post-push distance = %v, want %v", d, want)
	}
	if b.Vel.X <= 0 {
		t.Fatalf("dribble must push the ball along the player's heading, vel %v", b.Vel)
	}
}

func TestResolvePlayerBallStationaryBump(t *testing.T) {
	p := &Player{ID: "p", Pos: geom.V(300, 300)}
	b := &Ball{Pos: geom.V(300+PlayerRadius, 300)}
	if !ResolvePlayerBall(p, b) {
		t.Fatalf("overlapping ball must collide")
	}
	if math.Abs(b.Vel.Magnitude()-BumpImpulse) > 1e-9 {
		t.Fatalf("stationary bump = %v, want %v", b.Vel.Magnitude(), BumpImpulse)
	}
	if ResolvePlayerBall(p, b) {
		t.Fatalf("pushed-out ball must not immediately re-collide")
	}
}

func TestWorldSmallerTeamTiesRed(t *testing.T) {
	w := NewWorld()
	if w.SmallerTeam() != TeamRed {
		t.Fatalf("empty world tie must favor red")
	}
	w.Players["a"] = &Player{ID: "a", Team: TeamRed}
	if w.SmallerTeam() != TeamBlue {
		t.Fatalf("blue is smaller with one red player")
	}
	w.Players["b"] = &Player{ID: "b", Team: TeamBlue}
	if w.SmallerTeam() != TeamRed {
		t.Fatalf("1v1 tie must favor red")
	}
}

func TestResetPositionsDeterministic(t *testing.T) {
	build := func() *World {
		w := NewWorld()
		w.Players["z"] = &Player{ID: "z", Team: TeamRed}
		w.Players["a"] = &Player{ID: "a", Team: TeamRed}
		w.Players["m"] = &Player{ID: "m", Team: TeamBlue}
		w.ResetPositions()
		return w
	}
	w1, w2 := build(), build()
	for id := range w1.Players {
		if w1.Players[id].Pos != w2.Players[id].Pos {
			t.Fatalf("kickoff layout not deterministic for %q", id)
		}
		if !w1.Players[id].Vel.IsZero() {
			t.Fatalf("kickoff must zero velocities")
		}
	}
	if w1.Ball.Pos != geom.V(FieldWidth/2, FieldHeight/2) || !w1.Ball.Vel.IsZero() {
		t.Fatalf("ball must reset to center at rest, got %+v", w1.Ball)
	}
	if w1.Players["a"].Pos.X != FieldWidth/4 || w1.Players["m"].Pos.X != 3*FieldWidth/4 {
		t.Fatalf("teams must line up on their own halves")
	}
}
