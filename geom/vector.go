package geom

import "math"

// Vector2 is an immutable 2D value. All arithmetic returns a new value.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Scale(k float64) Vector2 {
	return Vector2{v.X * k, v.Y * k}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector, or the zero vector when v is zero.
func (v Vector2) Normalize() Vector2 {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector2{}
	}
	return Vector2{v.X / mag, v.Y / mag}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func Distance(a, b Vector2) float64 {
	return a.Sub(b).Magnitude()
}

// Clamp limits each component to [min, max] per axis.
func (v Vector2) Clamp(minX, maxX, minY, maxY float64) Vector2 {
	return Vector2{
		X: math.Max(minX, math.Min(v.X, maxX)),
		Y: math.Max(minY, math.Min(v.Y, maxY)),
	}
}

// ClampMagnitude rescales v so its magnitude does not exceed max.
func (v Vector2) ClampMagnitude(max float64) Vector2 {
	mag := v.Magnitude()
	if mag <= max || mag == 0 {
		return v
	}
	return v.Scale(max / mag)
}
