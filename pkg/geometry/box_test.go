package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewCenteredBox(t *testing.T) {
	tests := []struct {
		name     string
		w, h, d  float64
		wantDims int
		wantMin  mgl64.Vec3
		wantMax  mgl64.Vec3
	}{
		{"2D when depth is zero", 100, 60, 0, 2, mgl64.Vec3{-50, -30, 0}, mgl64.Vec3{50, 30, 0}},
		{"3D scene box", 100, 60, 70, 3, mgl64.Vec3{-50, -30, -35}, mgl64.Vec3{50, 30, 35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCenteredBox(tt.w, tt.h, tt.d)
			if b.Dims != tt.wantDims || b.Min != tt.wantMin || b.Max != tt.wantMax {
				t.Errorf("NewCenteredBox(%v, %v, %v) = %+v", tt.w, tt.h, tt.d, b)
			}
			if !b.Center().ApproxEqual(mgl64.Vec3{}) {
				t.Errorf("Center() = %v; want origin", b.Center())
			}
		})
	}
}

func TestBox_String(t *testing.T) {
	b := NewRect(0, 0, 800.456, 600)
	want := "[0.00,800.46]x[0.00,600.00]"
	if got := b.String(); got != want {
		t.Errorf("Box.String() = %q; want %q", got, want)
	}
}

func TestBox_Valid(t *testing.T) {
	tests := []struct {
		name string
		box  *Box
		want bool
	}{
		{"nil", nil, false},
		{"rect", NewRect(0, 0, 10, 10), true},
		{"degenerate is allowed", NewRect(5, 5, 5, 5), true},
		{"inverted x", NewRect(10, 0, 0, 10), false},
		{"NaN corner", NewRect(math.NaN(), 0, 10, 10), false},
		{"bad dims", &Box{Max: mgl64.Vec3{1, 1, 1}, Dims: 4}, false},
		{"inverted z ignored in 2D", &Box{Min: mgl64.Vec3{0, 0, 5}, Max: mgl64.Vec3{1, 1, 0}, Dims: 2}, true},
		{"inverted z in 3D", NewBox(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{1, 1, 0}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Valid(); got != tt.want {
				t.Errorf("Valid() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestBox_Contains(t *testing.T) {
	b := NewRect(0, 0, 100, 50)
	tests := []struct {
		p    mgl64.Vec3
		want bool
	}{
		{mgl64.Vec3{50, 25, 0}, true},
		{mgl64.Vec3{0, 0, 0}, true},
		{mgl64.Vec3{100, 50, 0}, true},
		{mgl64.Vec3{50, 25, 999}, true}, // Z is not an active axis
		{mgl64.Vec3{-0.1, 25, 0}, false},
		{mgl64.Vec3{50, 50.1, 0}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("%v.Contains(%v) = %v; want %v", b, tt.p, got, tt.want)
		}
	}
}

func TestBox_RandomPoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, b := range []*Box{NewRect(-10, 20, 10, 40), NewCenteredBox(100, 60, 70)} {
		for i := 0; i < 1000; i++ {
			p := b.RandomPoint(rng)
			if !b.Contains(p) {
				t.Fatalf("RandomPoint() = %v outside %v", p, b)
			}
			if b.Dims == 2 && p.Z() != 0 {
				t.Fatalf("2D RandomPoint() = %v; want Z == 0", p)
			}
		}
	}
}

func TestRandomDirection(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, dims := range []int{2, 3} {
		var sum mgl64.Vec3
		const n = 20000
		for i := 0; i < n; i++ {
			d := RandomDirection(rng, dims)
			if !floatEquals(d.Len(), 1) {
				t.Fatalf("RandomDirection(%d) = %v; want a unit vector", dims, d)
			}
			if dims == 2 && d.Z() != 0 {
				t.Fatalf("RandomDirection(2) = %v; want Z == 0", d)
			}
			sum = sum.Add(d)
		}
		// uniform directions average out
		if mean := sum.Mul(1.0 / n).Len(); mean > 0.05 {
			t.Errorf("RandomDirection(%d) mean length %f; want close to 0", dims, mean)
		}
	}
}

func TestClampLength(t *testing.T) {
	tests := []struct {
		name string
		v    mgl64.Vec3
		max  float64
		want mgl64.Vec3
	}{
		{"shorter is unchanged", mgl64.Vec3{1, 0, 0}, 2, mgl64.Vec3{1, 0, 0}},
		{"longer is rescaled", mgl64.Vec3{3, 4, 0}, 1, mgl64.Vec3{0.6, 0.8, 0}},
		{"zero stays zero", mgl64.Vec3{}, 0, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLength(tt.v, tt.max); !got.ApproxEqual(tt.want) {
				t.Errorf("ClampLength(%v, %v) = %v; want %v", tt.v, tt.max, got, tt.want)
			}
		})
	}
}

func TestHeadingAndAngle(t *testing.T) {
	if h := Heading(mgl64.Vec3{0, 5, 0}); !h.ApproxEqual(mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Heading((0,5,0)) = %v; want (0,1,0)", h)
	}
	if h := Heading(mgl64.Vec3{}); h != (mgl64.Vec3{}) {
		t.Errorf("Heading(zero) = %v; want zero", h)
	}
	if a := Angle(mgl64.Vec3{0, 1, 0}); !floatEquals(a, math.Pi/2) {
		t.Errorf("Angle((0,1,0)) = %v; want Pi/2", a)
	}
	if l := LenSqr(mgl64.Vec3{1, 2, 2}); !floatEquals(l, 9) {
		t.Errorf("LenSqr((1,2,2)) = %v; want 9", l)
	}
}

func BenchmarkLenSqr(b *testing.B) {
	v := mgl64.Vec3{1.5, -2.5, 3.5}
	for i := 0; i < b.N; i++ {
		_ = LenSqr(v)
	}
}
