package flock

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestTarget_Update(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		wantX float64
		wantY float64
	}{
		{"none", 0, 100, 100},
		{"right", InputRight, 115, 100},
		{"left", InputLeft, 85, 100},
		{"up goes to smaller y", InputUp, 100, 85},
		{"down", InputDown, 100, 115},
		{"diagonal", InputUp | InputRight, 115, 85},
		{"opposite keys cancel", InputLeft | InputRight, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget(vec2(100, 100))
			target.Update(tt.input)
			if !target.Position.ApproxEqual(vec2(tt.wantX, tt.wantY)) {
				t.Errorf("Update(%v) moved target to %v; want (%v, %v)", tt.input, target.Position, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTarget_Update_DepthKeys(t *testing.T) {
	target := NewTarget(mgl64.Vec3{0, 5, 0})
	target.Step = 1
	target.DepthKeys = true

	target.Update(InputUp | InputRight)
	if want := (mgl64.Vec3{1, 5, -1}); !target.Position.ApproxEqual(want) {
		t.Errorf("Update(up+right) moved target to %v; want %v", target.Position, want)
	}
	target.Update(InputDown)
	target.Update(InputDown)
	if want := (mgl64.Vec3{1, 5, 1}); !target.Position.ApproxEqual(want) {
		t.Errorf("Update(down) twice moved target to %v; want %v", target.Position, want)
	}
}

func TestInput_String(t *testing.T) {
	tests := []struct {
		input Input
		want  string
	}{
		{0, "none"},
		{InputUp, "up"},
		{InputDown | InputLeft, "down+left"},
		{InputUp | InputDown | InputLeft | InputRight, "up+down+left+right"},
	}
	for _, tt := range tests {
		if got := tt.input.String(); got != tt.want {
			t.Errorf("Input(%d).String() = %q; want %q", uint32(tt.input), got, tt.want)
		}
	}
}

func TestTarget_RandomLocation(t *testing.T) {
	box := geometry.NewRect(0, 0, 640, 480)
	rng := newTestRand()
	target := NewTarget(vec2(-1000, -1000))
	for i := 0; i < 100; i++ {
		target.RandomLocation(box, rng)
		if !box.Contains(target.Position) {
			t.Fatalf("target placed at %v outside %v", target.Position, box)
		}
	}
	assertPanics(t, "nil boundary", func() { target.RandomLocation(nil, rng) })
}

func TestParsePolicies(t *testing.T) {
	for _, c := range []Containment{ContainSteer, ContainWrap, ContainClamp, ContainNone} {
		got, err := ParseContainment(c.String())
		if err != nil || got != c {
			t.Errorf("ParseContainment(%q) = %v, %v; want %v", c.String(), got, err, c)
		}
	}
	for _, u := range []UpdatePolicy{UpdateSnapshot, UpdateSequential} {
		got, err := ParseUpdatePolicy(u.String())
		if err != nil || got != u {
			t.Errorf("ParseUpdatePolicy(%q) = %v, %v; want %v", u.String(), got, err, u)
		}
	}
	for _, n := range []NeighborSearch{SearchBruteForce, SearchGrid} {
		got, err := ParseNeighborSearch(n.String())
		if err != nil || got != n {
			t.Errorf("ParseNeighborSearch(%q) = %v, %v; want %v", n.String(), got, err, n)
		}
	}
	if c, _ := ParseContainment(""); c != ContainSteer {
		t.Errorf("empty containment should default to steer, got %v", c)
	}
	if _, err := ParseContainment("bounce"); err == nil {
		t.Error("ParseContainment(bounce) should fail")
	}
	if _, err := ParseAlignmentForm("sideways"); err == nil {
		t.Error("ParseAlignmentForm(sideways) should fail")
	}
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() = %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative max speed", func(p *Params) { p.MaxSpeed = -1 }},
		{"NaN weight", func(p *Params) { p.CohesionWeight = math.NaN() }},
		{"separation beyond perception", func(p *Params) { p.SeparationRadius = p.PerceptionRadius * 2 }},
		{"min above max", func(p *Params) { p.MinSpeed = p.MaxSpeed + 1 }},
		{"unknown alignment", func(p *Params) { p.Alignment = AlignmentForm(7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Errorf("Validate() accepted %+v", p)
			}
		})
	}
}
