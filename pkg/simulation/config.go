package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is returned when a configuration file or a live update is rejected.
var ErrInvalidConfig = errors.New("invalid simulation config")

//go:embed config.schema.json
var configSchema string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", configSchema)
})

// Config is everything needed to build and run a flock simulation.
type Config struct {
	// Preset selects the defaults a file is overlaid on: "2d" (default) or "3d".
	Preset string `json:"preset,omitempty"`

	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
	WorldDepth  float64 `json:"worldDepth"` // 0 for a flat world
	Centered    bool    `json:"centered"`   // origin at the middle of the world instead of a corner

	// Population
	NumBoids int `json:"numBoids"`

	// Physics / Behavior
	MaxSpeed         float64 `json:"maxSpeed"`
	MinSpeed         float64 `json:"minSpeed"`
	MaxVerticalSpeed float64 `json:"maxVerticalSpeed"`

	// Boids flocking parameters (matching pkg/flock.Params)
	VisualRange    float64 `json:"visualRange"`    // How far can they see?
	ProtectedRange float64 `json:"protectedRange"` // Personal space radius

	CenteringFactor float64 `json:"centeringFactor"` // Cohesion strength
	AvoidFactor     float64 `json:"avoidFactor"`     // Separation strength
	MatchingFactor  float64 `json:"matchingFactor"`  // Alignment strength
	TargetFactor    float64 `json:"targetFactor"`    // Target avoidance strength
	Margin          float64 `json:"margin"`          // Distance from a wall at which turning starts
	TurnFactor      float64 `json:"turnFactor"`      // Edge turning strength
	Alignment       string  `json:"alignment"`       // "steer" or "additive"

	// Engine
	Containment    string `json:"containment"`    // steer, wrap, clamp or none
	UpdatePolicy   string `json:"updatePolicy"`   // snapshot or sequential
	NeighborSearch string `json:"neighborSearch"` // brute or grid
	Workers        int    `json:"workers"`
	Seed           uint64 `json:"seed"` // 0 picks a random seed

	// Target
	Target       bool    `json:"target"`
	TargetRadius float64 `json:"targetRadius"`
	TargetStep   float64 `json:"targetStep"`

	// Runtime
	TicksPerSecond          int    `json:"ticksPerSecond"`
	LogLevel                string `json:"logLevel"`
	DisplayPerceptionCircle bool   `json:"displayPerceptionCircle"`
}

// DefaultConfig returns the 2D canvas setup: a screen sized world with its
// origin in the top-left corner.
func DefaultConfig() *Config {
	p := flock.DefaultParams()
	return &Config{
		WorldWidth:      1000,
		WorldHeight:     800,
		NumBoids:        800,
		MaxSpeed:        p.MaxSpeed,
		VisualRange:     p.PerceptionRadius,
		ProtectedRange:  p.SeparationRadius,
		CenteringFactor: p.CohesionWeight,
		AvoidFactor:     p.SeparationWeight,
		MatchingFactor:  p.AlignmentWeight,
		TargetFactor:    0.05,
		Margin:          p.BoundaryMargin,
		TurnFactor:      p.BoundaryTurnFactor,
		Alignment:       p.Alignment.String(),
		Containment:     flock.ContainSteer.String(),
		UpdatePolicy:    flock.UpdateSnapshot.String(),
		NeighborSearch:  flock.SearchGrid.String(),
		Workers:         1,
		Target:          true,
		TargetRadius:    flock.DefaultTargetRadius,
		TargetStep:      flock.DefaultTargetStep,
		TicksPerSecond:  60,
		LogLevel:        "info",
	}
}

// Default3DConfig returns the fish tank setup: a box centred on the origin,
// slow agents and a capped vertical speed so the school stays mostly level.
func Default3DConfig() *Config {
	return &Config{
		Preset:           "3d",
		WorldWidth:       100,
		WorldHeight:      60,
		WorldDepth:       70,
		Centered:         true,
		NumBoids:         1000,
		MaxSpeed:         0.05,
		MaxVerticalSpeed: 0.0125,
		VisualRange:      2,
		ProtectedRange:   1,
		CenteringFactor:  0.005,
		AvoidFactor:      0.05,
		MatchingFactor:   0.05,
		TargetFactor:     0.05,
		Margin:           5,
		TurnFactor:       0.5 / 150,
		Alignment:        flock.AlignSteer.String(),
		Containment:      flock.ContainSteer.String(),
		UpdatePolicy:     flock.UpdateSnapshot.String(),
		NeighborSearch:   flock.SearchGrid.String(),
		Workers:          4,
		TargetRadius:     2,
		TargetStep:       1,
		TicksPerSecond:   60,
		LogLevel:         "info",
	}
}

// LoadConfig reads a .json or .toml configuration file, overlays it on the
// defaults of its preset and validates the result.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".json":
	case ".toml":
		// TOML is only a friendlier syntax: convert to JSON so both formats
		// go through the same schema.
		var m map[string]any
		if err := toml.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("%w: failed to decode toml: %w", ErrInvalidConfig, err)
		}
		if b, err = json.Marshal(m); err != nil {
			return nil, fmt.Errorf("failed to convert toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(configFile))
	}
	return ParseConfig(b)
}

// ParseConfig validates a JSON document against the config schema and
// overlays it on the defaults of its preset.
func ParseConfig(data []byte) (*Config, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var head struct {
		Preset string `json:"preset"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg := DefaultConfig()
	if head.Preset == "3d" {
		cfg = Default3DConfig()
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateDocument(data []byte) error {
	sch, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: failed to decode config json: %w", ErrInvalidConfig, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: config validation failed: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.flockOptions(); err != nil {
		return err
	}
	if !c.Boundary().Valid() {
		return fmt.Errorf("%w: world %vx%vx%v", ErrInvalidConfig, c.WorldWidth, c.WorldHeight, c.WorldDepth)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// liveKeys are the keys a running simulation accepts. Everything else
// (population, world size, engine policies) needs a restart.
var liveKeys = map[string]bool{
	"maxSpeed":                true,
	"minSpeed":                true,
	"maxVerticalSpeed":        true,
	"visualRange":             true,
	"protectedRange":          true,
	"centeringFactor":         true,
	"avoidFactor":             true,
	"matchingFactor":          true,
	"targetFactor":            true,
	"margin":                  true,
	"turnFactor":              true,
	"alignment":               true,
	"displayPerceptionCircle": true,
}

// ApplyParams returns a copy of c with the live parameter update applied.
// The update is validated with the config schema and the Params invariants;
// on error c is left untouched.
func (c *Config) ApplyParams(update map[string]any) (*Config, error) {
	for k := range update {
		if !liveKeys[k] {
			return nil, fmt.Errorf("%w: %q cannot be changed while running", ErrInvalidConfig, k)
		}
	}
	data, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	next := *c
	if err := json.Unmarshal(data, &next); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := next.Params().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &next, nil
}

// Params converts the flocking section to flock.Params.
// An unknown alignment name falls back to the default form; Validate reports it.
func (c *Config) Params() flock.Params {
	form, _ := flock.ParseAlignmentForm(c.Alignment)
	return flock.Params{
		MaxSpeed:           c.MaxSpeed,
		MinSpeed:           c.MinSpeed,
		MaxVerticalSpeed:   c.MaxVerticalSpeed,
		PerceptionRadius:   c.VisualRange,
		SeparationRadius:   c.ProtectedRange,
		SeparationWeight:   c.AvoidFactor,
		AlignmentWeight:    c.MatchingFactor,
		CohesionWeight:     c.CenteringFactor,
		TargetWeight:       c.TargetFactor,
		BoundaryMargin:     c.Margin,
		BoundaryTurnFactor: c.TurnFactor,
		Alignment:          form,
	}
}

// Boundary returns the world region.
func (c *Config) Boundary() *geometry.Box {
	switch {
	case c.Centered:
		return geometry.NewCenteredBox(c.WorldWidth, c.WorldHeight, c.WorldDepth)
	case c.WorldDepth > 0:
		return geometry.NewBox(mgl64.Vec3{}, mgl64.Vec3{c.WorldWidth, c.WorldHeight, c.WorldDepth})
	default:
		return geometry.NewRect(0, 0, c.WorldWidth, c.WorldHeight)
	}
}

// NewTarget returns the configured target at the centre of the world, or nil.
func (c *Config) NewTarget() *flock.Target {
	if !c.Target {
		return nil
	}
	b := c.Boundary()
	t := flock.NewTarget(b.Center())
	t.Radius = c.TargetRadius
	t.Step = c.TargetStep
	t.DepthKeys = b.Dims == 3
	return t
}

// NewFlock builds an unspawned flock from the configuration.
func (c *Config) NewFlock() (*flock.Flock, error) {
	opts, err := c.flockOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, flock.WithParams(c.Params()), flock.WithTarget(c.NewTarget()))
	return flock.New(c.NumBoids, c.Boundary(), opts...)
}

func (c *Config) flockOptions() ([]flock.Option, error) {
	if _, err := flock.ParseAlignmentForm(c.Alignment); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	containment, err := flock.ParseContainment(c.Containment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	policy, err := flock.ParseUpdatePolicy(c.UpdatePolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	search, err := flock.ParseNeighborSearch(c.NeighborSearch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if policy == flock.UpdateSequential && (c.Workers > 1 || search == flock.SearchGrid) {
		return nil, fmt.Errorf("%w: the sequential update policy supports neither workers nor grid search", ErrInvalidConfig)
	}

	opts := []flock.Option{
		flock.WithContainment(containment),
		flock.WithUpdatePolicy(policy),
		flock.WithNeighborSearch(search),
		flock.WithWorkers(c.Workers),
	}
	if c.Seed != 0 {
		opts = append(opts, flock.WithSeed(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	}
	return opts, nil
}
