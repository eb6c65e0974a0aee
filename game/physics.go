package game

import "github.com/adiletexe/haxball-game/geom"

// Pure per-tick physics. Functions mutate only the entities passed in
// and are deterministic for identical inputs.

// UpdatePlayer advances one player by one tick of held input.
func UpdatePlayer(p *Player, in Input) {
	var ax, ay float64
	if in.Left {
		ax--
	}
	if in.Right {
		ax++
	}
	if in.Up {
		ay--
	}
	if in.Down {
		ay++
	}

	// Normalized so diagonals are not faster than axis movement.
	dir := geom.V(ax, ay).Normalize()
	p.Vel = p.Vel.Add(dir.Scale(PlayerAccel * PlayerSpeed))
	p.Vel = p.Vel.ClampMagnitude(PlayerSpeed)
	p.Vel = p.Vel.Scale(PlayerFriction)

	p.Pos = p.Pos.Add(p.Vel)
	p.Pos = p.Pos.Clamp(
		PlayerRadius, FieldWidth-PlayerRadius,
		PlayerRadius, FieldHeight-PlayerRadius,
	)

	if p.KickCooldown > 0 {
		p.KickCooldown--
	}
}

// ResolvePlayers separates two overlapping players equally along their
// center line and exchanges momentum only while they are approaching.
func ResolvePlayers(p1, p2 *Player) {
	delta := p2.Pos.Sub(p1.Pos)
	dist := delta.Magnitude()
	if dist >= 2*PlayerRadius {
		return
	}

	normal := delta.Normalize()
	if normal.IsZero() {
		normal = geom.V(1, 0)
	}

	overlap := 2*PlayerRadius - dist
	p1.Pos = p1.Pos.Sub(normal.Scale(overlap / 2))
	p2.Pos = p2.Pos.Add(normal.Scale(overlap / 2))

	approach := p1.Vel.Sub(p2.Vel).Dot(normal)
	if approach > 0 {
		impulse := normal.Scale(approach * PlayerBounce)
		p1.Vel = p1.Vel.Sub(impulse)
		p2.Vel = p2.Vel.Add(impulse)
	}
}
