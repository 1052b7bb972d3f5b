package object

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Zero.Normalize(); got != Zero {
		t.Fatalf("Zero.Normalize() = %v, want %v", got, Zero)
	}
	if got, want := (Vector{X: 3, Y: -4}).Normalize(), (Vector{X: 0.6, Y: -0.8}); got != want {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	got := Vector{X: 25, Y: -30}.Clamp(20)
	if want := (Vector{X: 20, Y: -20}); got != want {
		t.Fatalf("Clamp(20) = %v, want %v", got, want)
	}
	inside := Vector{X: -1.5, Y: 19.99}
	if got := inside.Clamp(20); got != inside {
		t.Fatalf("Clamp(20) = %v, want %v", got, inside)
	}
}

func TestSignum(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{2.5, 1},
		{-0.1, -1},
		{0, 1},
		{math.Copysign(0, -1), -1},
	}
	for _, c := range cases {
		if got := Signum(c.in); got != c.want {
			t.Fatalf("Signum(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !(Vector{X: 1, Y: -1}).IsFinite() {
		t.Fatal("finite vector reported non-finite")
	}
	if (Vector{X: math.NaN()}).IsFinite() || (Vector{Y: math.Inf(1)}).IsFinite() {
		t.Fatal("non-finite vector reported finite")
	}
}
