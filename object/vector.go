package object

import "math"

// Vector is a 2D point or direction in arena units.
//
// Products are wrapped in explicit float64 conversions. Without them the
// compiler may fuse x*y+z into one FMA instruction on some architectures and
// round differently; the conversion forces the intermediate rounding.
type Vector struct {
	X, Y float64
}

var Zero = Vector{}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{X: float64(v.X * f), Y: float64(v.Y * f)}
}

func (v Vector) Abs() Vector {
	return Vector{X: math.Abs(v.X), Y: math.Abs(v.Y)}
}

func (v Vector) Length() float64 {
	return math.Sqrt(float64(v.X*v.X) + float64(v.Y*v.Y))
}

// Normalize returns v scaled to unit length, or Zero if v has no length.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Clamp limits both components to [-limit, limit].
func (v Vector) Clamp(limit float64) Vector {
	return Vector{
		X: math.Max(-limit, math.Min(limit, v.X)),
		Y: math.Max(-limit, math.Min(limit, v.Y)),
	}
}

func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func Distance(a, b Vector) float64 {
	return a.Sub(b).Length()
}

// Signum returns 1 or -1 following the sign bit, so -0 gives -1.
func Signum(f float64) float64 {
	if math.Signbit(f) {
		return -1
	}
	return 1
}
