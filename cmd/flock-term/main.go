// Command flock-term runs the flock in a terminal. Arrow keys move the target,
// r scatters the flock, q or Esc quits. 3D worlds are shown from above with the
// height as brightness.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// arrows indexed by heading octant, screen y pointing down
var arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

type termView struct {
	ctx    context.Context
	screen tcell.Screen
	engine *simulation.Engine
	last   *simulation.Snapshot

	pending   flock.Input
	lastInput flock.Input
}

func newTermView(ctx context.Context, engine *simulation.Engine) (*termView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &termView{ctx: ctx, screen: screen, engine: engine}, nil
}

// handleInput returns false when the user asked to quit.
func (v *termView) handleInput(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false, nil
		case tcell.KeyUp:
			v.pending |= flock.InputUp
		case tcell.KeyDown:
			v.pending |= flock.InputDown
		case tcell.KeyLeft:
			v.pending |= flock.InputLeft
		case tcell.KeyRight:
			v.pending |= flock.InputRight
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false, nil
			case 'r':
				return true, v.engine.Randomize(v.ctx)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true, nil
}

// step forwards the keys pressed since the last tick, then ticks once.
// Terminal keys have no release event, so a press counts for a single tick.
func (v *termView) step(dt time.Duration) error {
	if v.pending != v.lastInput {
		if err := v.engine.SetInput(v.ctx, v.pending); err != nil {
			return err
		}
		v.lastInput = v.pending
	}
	v.pending = 0
	return v.engine.Tick(v.ctx, dt)
}

func (v *termView) draw() {
	v.last = v.engine.Latest(v.last)
	s := v.last
	if s == nil {
		return
	}

	v.screen.Clear()
	w, h := v.screen.Size()
	h-- // status line
	if w <= 0 || h <= 0 {
		return
	}

	for _, a := range s.Agents {
		x, y := project(s.Boundary, a.Position, w, h)
		v.screen.SetContent(x, y, arrowFor(s.Boundary, a.Heading), nil, boidStyle(s.Boundary, a.Position))
	}
	if t := s.Target; t != nil {
		x, y := project(s.Boundary, t.Position, w, h)
		v.screen.SetContent(x, y, '◎', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}

	status := fmt.Sprintf(" tick %d | boids %d | avg speed %.3f | polarization %.2f | arrows: target  r: randomize  q: quit ",
		s.Tick, s.Stats.Count, s.Stats.AverageSpeed, s.Stats.Polarization)
	style := tcell.StyleDefault.Reverse(true)
	for i, ch := range []rune(status) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, h, ch, nil, style)
	}
	v.screen.Show()
}

// project maps a world position to a terminal cell. 3D worlds are seen from
// above: X across, Z down the screen.
func project(b geometry.Box, p mgl64.Vec3, w, h int) (int, int) {
	depthAxis := 1
	if b.Dims == 3 {
		depthAxis = 2
	}
	size := b.Size()
	cell := func(axis, n int) int {
		if size[axis] == 0 {
			return 0
		}
		c := int((p[axis] - b.Min[axis]) / size[axis] * float64(n))
		return max(0, min(n-1, c))
	}
	return cell(0, w), cell(depthAxis, h)
}

func arrowFor(b geometry.Box, heading mgl64.Vec3) rune {
	dy := heading[1]
	if b.Dims == 3 {
		dy = heading[2]
	}
	if heading[0] == 0 && dy == 0 {
		return '•'
	}
	octant := int(math.Round(math.Atan2(dy, heading[0])/(math.Pi/4))+8) % 8
	return arrows[octant]
}

// boidStyle shades 3D agents by height, higher is brighter.
func boidStyle(b geometry.Box, p mgl64.Vec3) tcell.Style {
	if b.Dims != 3 || b.Size()[1] == 0 {
		return tcell.StyleDefault.Foreground(tcell.ColorLightSkyBlue)
	}
	t := (p[1] - b.Min[1]) / b.Size()[1]
	level := int32(80 + 175*max(0, min(1, t)))
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(level/3, level*2/3, level))
}

func run(v *termView, tps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			eventChan <- ev
		}
	}()

	dt := time.Second / time.Duration(tps)
	for {
		select {
		case ev := <-eventChan:
			more, err := v.handleInput(ev)
			if err != nil || !more {
				return err
			}
		case <-ticker.C:
			if err := v.step(dt); err != nil {
				return err
			}
			v.draw()
		}
	}
}

func main() {
	configFile := flag.String("config", "", "JSON or TOML configuration file")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			log.Fatalf("💥 failed to load config: %v", err)
		}
	}

	// The terminal belongs to the renderer, so actor logs go to a file when asked for.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("FLOCK_LOG"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("💥 failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	ctx := context.Background()
	engine, err := simulation.Start(ctx, cfg, simulation.NewLogger(cfg.LogLevel, logOut))
	if err != nil {
		log.Fatalf("💥 failed to start simulation: %v", err)
	}
	defer engine.Stop(ctx)

	view, err := newTermView(ctx, engine)
	if err != nil {
		log.Fatalf("💥 failed to open terminal: %v", err)
	}
	err = run(view, cfg.TicksPerSecond)
	view.screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
