package game

import "github.com/adiletexe/haxball-game/geom"

// InGoalBand reports whether y lies strictly inside the goal mouth.
func InGoalBand(y float64) bool {
	half := GoalWidth / 2
	return y > FieldHeight/2-half && y < FieldHeight/2+half
}

// UpdateBall advances the ball by one tick: integrate, roll off, reflect
// off walls. Left/right reflection is skipped inside the goal band so a
// subsequent CheckGoal can still observe the crossing; callers must run
// UpdateBall before CheckGoal within the same tick.
func UpdateBall(b *Ball) {
	b.Pos = b.Pos.Add(b.Vel)
	b.Vel = b.Vel.Scale(BallFriction)
	if b.Vel.Magnitude() < BallStopSpeed {
		b.Vel = geom.Vector2{}
	}

	if b.Pos.Y-BallRadius < 0 {
		b.Pos = geom.V(b.Pos.X, BallRadius)
		b.Vel = geom.V(b.Vel.X, b.Vel.Y*-WallRestitution)
	} else if b.Pos.Y+BallRadius > FieldHeight {
		b.Pos = geom.V(b.Pos.X, FieldHeight-BallRadius)
		b.Vel = geom.V(b.Vel.X, b.Vel.Y*-WallRestitution)
	}

	if !InGoalBand(b.Pos.Y) {
		if b.Pos.X-BallRadius < 0 {
			b.Pos = geom.V(BallRadius, b.Pos.Y)
			b.Vel = geom.V(b.Vel.X*-WallRestitution, b.Vel.Y)
		} else if b.Pos.X+BallRadius > FieldWidth {
			b.Pos = geom.V(FieldWidth-BallRadius, b.Pos.Y)
			b.Vel = geom.V(b.Vel.X*-WallRestitution, b.Vel.Y)
		}
	}
}

// ResolvePlayerBall pushes an overlapping ball out of a player and
// imparts velocity. Returns whether a collision happened so callers can
// iterate resolution across all players.
func ResolvePlayerBall(p *Player, b *Ball) bool {
	delta := b.Pos.Sub(p.Pos)
	dist := delta.Magnitude()
	if dist >= PlayerRadius+BallRadius {
		return false
	}

	normal := delta.Normalize()
	if normal.IsZero() {
		normal = geom.V(1, 0)
	}

	// Margin keeps the ball from re-colliding next tick and sticking.
	overlap := PlayerRadius + BallRadius - dist
	b.Pos = b.Pos.Add(normal.Scale(overlap + SeparationMargin))

	if p.Vel.Magnitude() > MinDribbleSpeed {
		// Dribble: keep most of the ball's motion, push along the
		// player's heading.
		b.Vel = b.Vel.Scale(DribbleKeep).Add(p.Vel.Scale(DribblePush))
	} else {
		// A near-stationary player still bumps the ball away.
		b.Vel = b.Vel.Add(normal.Scale(BumpImpulse))
	}
	return true
}

func kickWithRange(p *Player, b *Ball, rangeMargin float64) bool {
	if geom.Distance(p.Pos, b.Pos) > PlayerRadius+BallRadius+rangeMargin {
		return false
	}
	normal := b.Pos.Sub(p.Pos).Normalize()
	if normal.IsZero() {
		normal = geom.V(1, 0)
	}
	b.Vel = b.Vel.Add(normal.Scale(KickForce))
	p.KickCooldown = KickCooldownTicks
	p.Kicking = true
	return true
}

// Kick applies the authoritative kick for a player local to the host.
// Fails while on cooldown or out of range.
func Kick(p *Player, b *Ball) bool {
	if p.KickCooldown > 0 {
		return false
	}
	return kickWithRange(p, b, KickRange)
}

// KickExtended is the host's handler for kicks that originate from a
// remote player. The wider range and missing cooldown gate compensate
// for the staleness of the host's view of that player, not local ones.
func KickExtended(p *Player, b *Ball) bool {
	return kickWithRange(p, b, KickRangeRemote)
}

// CheckGoal reports which team scored, or TeamNone. Pure query: callers
// must reset the ball after a goal or the same crossing re-fires.
func CheckGoal(b *Ball) Team {
	if !InGoalBand(b.Pos.Y) {
		return TeamNone
	}
	if b.Pos.X-BallRadius < 0 {
		return TeamBlue // crossed the left (red) goal line
	}
	if b.Pos.X+BallRadius > FieldWidth {
		return TeamRed
	}
	return TeamNone
}
