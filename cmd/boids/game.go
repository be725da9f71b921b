package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

var (
	whiteImage  = ebiten.NewImage(3, 3)
	boidColor   = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	targetColor = color.RGBA{R: 255, G: 90, B: 60, A: 255}
	background  = color.RGBA{R: 10, G: 10, B: 30, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

// Game is the ebiten front end: it ticks the world once per frame, forwards
// panel changes and keyboard input, and draws the latest snapshot.
type Game struct {
	ctx       context.Context
	engine    *simulation.Engine
	cfg       *simulation.Config
	lastState *simulation.Snapshot
	lastInput flock.Input

	// UI Controls
	panel           *ui.UIPanel
	widgetPerceive  *ui.Checkbox
	randomizeOnNext bool

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

func NewGame(ctx context.Context, engine *simulation.Engine, cfg *simulation.Config) *Game {
	g := &Game{ctx: ctx, engine: engine, cfg: cfg}

	panel := ui.NewUIPanel("Flock parameters", 10, 10, 260, cfg.WorldHeight-20)

	panel.AddSection("Speed")
	panel.AddSlider("Max Speed", "maxSpeed", 0.5, 10, cfg.MaxSpeed)
	panel.AddSlider("Min Speed", "minSpeed", 0, 5, cfg.MinSpeed)
	panel.EndSection()

	panel.AddSection("Ranges")
	panel.AddSlider("Visual Range", "visualRange", 10, 150, cfg.VisualRange)
	panel.AddSlider("Protected Range", "protectedRange", 1, 50, cfg.ProtectedRange)
	panel.EndSection()

	panel.AddSection("Boids Flocking")
	panel.AddSlider("Centering Factor", "centeringFactor", 0, 0.02, cfg.CenteringFactor)
	panel.AddSlider("Avoid Factor", "avoidFactor", 0, 0.2, cfg.AvoidFactor)
	panel.AddSlider("Matching Factor", "matchingFactor", 0, 0.2, cfg.MatchingFactor)
	panel.AddSlider("Target Factor", "targetFactor", 0, 0.2, cfg.TargetFactor)
	panel.EndSection()

	panel.AddSection("Edges")
	panel.AddSlider("Margin", "margin", 0, 200, cfg.Margin)
	panel.AddSlider("Turn Factor", "turnFactor", 0, 4, cfg.TurnFactor)
	panel.EndSection()

	panel.AddSection("Visualization")
	g.widgetPerceive = panel.AddCheckbox("Show perception", "", cfg.DisplayPerceptionCircle)
	panel.AddButton("Randomize", func() { g.randomizeOnNext = true })
	panel.EndSection()

	g.panel = panel
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if ebiten.IsKeyPressed(ebiten.KeyTab) {
		g.panel.Hidden = false
	}
	if ebiten.IsKeyPressed(ebiten.KeyH) {
		g.panel.Hidden = true
	}
	g.panel.Update()

	// Retrieve Latest State (Non-blocking), skipping any backlog
	g.lastState = g.engine.Latest(g.lastState)

	if update := g.panel.ChangedValues(); update != nil {
		if err := g.engine.UpdateParams(g.ctx, update); err != nil {
			return err
		}
	}
	if g.randomizeOnNext {
		g.randomizeOnNext = false
		if err := g.engine.Randomize(g.ctx); err != nil {
			return err
		}
	}
	if in := readInput(); in != g.lastInput {
		g.lastInput = in
		if err := g.engine.SetInput(g.ctx, in); err != nil {
			return err
		}
	}

	// Trigger Simulation Step
	return g.engine.Tick(g.ctx, time.Second/time.Duration(ebiten.TPS()))
}

func readInput() flock.Input {
	var in flock.Input
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in |= flock.InputUp
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in |= flock.InputDown
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in |= flock.InputLeft
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in |= flock.InputRight
	}
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	if s := g.lastState; s != nil {
		perception := float32(s.Params.PerceptionRadius)
		for _, a := range s.Agents {
			if g.widgetPerceive.Value {
				vector.StrokeCircle(screen, float32(a.Position.X()), float32(a.Position.Y()),
					perception, 1, color.RGBA{R: 60, G: 80, B: 120, A: 80}, true)
			}
			drawBoid(screen, a)
		}
		if t := s.Target; t != nil {
			vector.StrokeCircle(screen, float32(t.Position.X()), float32(t.Position.Y()),
				float32(t.Radius), 2, targetColor, true)
		}
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	if s := g.lastState; s != nil {
		msg += fmt.Sprintf("\n\nTick: %d\nBoids: %d\nPolarization: %.2f", s.Tick, s.Stats.Count, s.Stats.Polarization)
	}
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.WorldWidth)-160, 10)
}

// drawBoid draws a triangle pointing along the heading.
func drawBoid(screen *ebiten.Image, a simulation.AgentView) {
	angle := geometry.Angle(a.Heading)
	x, y := a.Position.X(), a.Position.Y()

	tipX := x + math.Cos(angle)*6
	tipY := y + math.Sin(angle)*6
	rightX := x + math.Cos(angle+2.5)*5
	rightY := y + math.Sin(angle+2.5)*5
	leftX := x + math.Cos(angle-2.5)*5
	leftY := y + math.Sin(angle-2.5)*5

	r, g, b := float32(boidColor.R)/255, float32(boidColor.G)/255, float32(boidColor.B)/255
	vertices := []ebiten.Vertex{
		{DstX: float32(tipX), DstY: float32(tipY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
		{DstX: float32(rightX), DstY: float32(rightY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
		{DstX: float32(leftX), DstY: float32(leftY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
