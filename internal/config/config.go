package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/dynamo"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultGravity  = 981.0
)

// Scenario names understood by the scene builder.
const (
	ScenarioFree        = "free"
	ScenarioPendulum    = "pendulum"
	ScenarioCentripetal = "centripetal"
	ScenarioSlope       = "slope"
	ScenarioCar         = "car"
)

// Scenarios lists every scenario in display order.
var Scenarios = []string{ScenarioFree, ScenarioPendulum, ScenarioCentripetal, ScenarioSlope, ScenarioCar}

// Body types accepted in BodyConfig.Type.
const (
	TypeCircle  = "circle"
	TypeBox     = "box"
	TypePolygon = "polygon"
	TypeSegment = "segment"
)

// Config describes one scene. Positions and velocities are in screen pixels
// with y pointing down; the scene builder converts them once.
type Config struct {
	Scenario string        `yaml:"scenario"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Seed     int64         `yaml:"seed"`
	Width    float64       `yaml:"width"`
	Height   float64       `yaml:"height"`
	Gravity  float64       `yaml:"gravity"`
	Solver   dynamo.Config `yaml:"solver"`

	Walls       WallConfig        `yaml:"walls"`
	Bodies      []BodyConfig      `yaml:"bodies"`
	RandomBalls int               `yaml:"random_balls"`
	Pendulum    PendulumConfig    `yaml:"pendulum"`
	Centripetal CentripetalConfig `yaml:"centripetal"`
	Slope       SlopeConfig       `yaml:"slope"`
	Car         CarConfig         `yaml:"car"`
}

// WallConfig controls the four containment segments around the screen.
type WallConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Thickness  float64 `yaml:"thickness"`
	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
}

// BodyConfig is the single schema every body in a scene is built from.
// For polygons the vertices are offsets from (x, y); for segments they are
// the two absolute endpoints and Thickness applies.
type BodyConfig struct {
	Type       string       `yaml:"type"`
	Label      string       `yaml:"label,omitempty"`
	Static     bool         `yaml:"static,omitempty"`
	X          float64      `yaml:"x"`
	Y          float64      `yaml:"y"`
	VX         float64      `yaml:"vx"`
	VY         float64      `yaml:"vy"`
	AX         float64      `yaml:"ax"`
	AY         float64      `yaml:"ay"`
	Angle      float64      `yaml:"angle,omitempty"`
	Mass       float64      `yaml:"mass"`
	Radius     float64      `yaml:"radius,omitempty"`
	Width      float64      `yaml:"width,omitempty"`
	Height     float64      `yaml:"height,omitempty"`
	Thickness  float64      `yaml:"thickness,omitempty"`
	Vertices   [][2]float64 `yaml:"vertices,omitempty"`
	Elasticity float64      `yaml:"elasticity"`
	Friction   float64      `yaml:"friction"`
}

type PendulumConfig struct {
	Anchor     [2]float64 `yaml:"anchor"`
	Bob        [2]float64 `yaml:"bob"`
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`
	Elasticity float64    `yaml:"elasticity"`
}

type CentripetalConfig struct {
	Center     [2]float64 `yaml:"center"`
	Orbit      float64    `yaml:"orbit"`
	Speed      float64    `yaml:"speed"`
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`
	Elasticity float64    `yaml:"elasticity"`
	Friction   float64    `yaml:"friction"`
}

// SlopeConfig places a static incline and the blocks that slide on it.
type SlopeConfig struct {
	From       [2]float64   `yaml:"from"`
	To         [2]float64   `yaml:"to"`
	Thickness  float64      `yaml:"thickness"`
	Elasticity float64      `yaml:"elasticity"`
	Friction   float64      `yaml:"friction"`
	Blocks     []BodyConfig `yaml:"blocks"`
}

type CarConfig struct {
	Position      [2]float64 `yaml:"position"`
	ChassisWidth  float64    `yaml:"chassis_width"`
	ChassisHeight float64    `yaml:"chassis_height"`
	ChassisMass   float64    `yaml:"chassis_mass"`
	WheelRadius   float64    `yaml:"wheel_radius"`
	WheelMass     float64    `yaml:"wheel_mass"`
	WheelBase     float64    `yaml:"wheel_base"`
	WheelDrop     float64    `yaml:"wheel_drop"`
	MotorRate     float64    `yaml:"motor_rate"`
	MaxTorque     float64    `yaml:"max_torque"`
	Friction      float64    `yaml:"friction"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: ScenarioFree,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Gravity:  DefaultGravity,
		Solver:   dynamo.DefaultConfig(),
		Walls:    DefaultWalls(),
		Bodies: []BodyConfig{
			{Type: TypeCircle, X: 400, Y: 100, VX: 500, Mass: 2, Radius: 15, Elasticity: 0.8, Friction: 1},
		},
		Pendulum:    DefaultPendulum(),
		Centripetal: DefaultCentripetal(),
		Slope:       DefaultSlope(),
		Car:         DefaultCar(),
	}
}

func DefaultPendulum() PendulumConfig {
	return PendulumConfig{Anchor: [2]float64{400, 300}, Bob: [2]float64{500, 300}, Mass: 1, Radius: 15, Elasticity: 0.9}
}

func DefaultCentripetal() CentripetalConfig {
	return CentripetalConfig{Center: [2]float64{400, 300}, Orbit: 200, Speed: 100, Mass: 2, Radius: 15, Elasticity: 1}
}

func DefaultSlope() SlopeConfig {
	from, to := [2]float64{100, 200}, [2]float64{700, 500}
	return SlopeConfig{
		From:       from,
		To:         to,
		Thickness:  4,
		Elasticity: 0.2,
		Friction:   0.3,
		Blocks:     []BodyConfig{BlockOnSlope(from, to, 150, 40, 40, 3, 3)},
	}
}

func DefaultCar() CarConfig {
	return CarConfig{
		Position:      [2]float64{200, 540},
		ChassisWidth:  120,
		ChassisHeight: 30,
		ChassisMass:   5,
		WheelRadius:   20,
		WheelMass:     1,
		WheelBase:     90,
		WheelDrop:     20,
		MotorRate:     6,
		MaxTorque:     5e5,
		Friction:      0.9,
	}
}

// BlockOnSlope returns a box of w x h resting along the incline from -> to,
// dist pixels from the first endpoint with its lower face gap pixels off the
// incline's centre line. The incline is assumed to run left to right.
func BlockOnSlope(from, to [2]float64, dist, w, h, gap, mass float64) BodyConfig {
	dx, dy := to[0]-from[0], to[1]-from[1]
	l := math.Hypot(dx, dy)
	tx, ty := dx/l, dy/l
	// screen normal pointing up and away from the incline
	nx, ny := ty, -tx
	off := h/2 + gap
	return BodyConfig{
		Type:       TypeBox,
		Label:      "block",
		X:          from[0] + tx*dist + nx*off,
		Y:          from[1] + ty*dist + ny*off,
		Angle:      math.Atan2(dy, dx),
		Mass:       mass,
		Width:      w,
		Height:     h,
		Elasticity: 0.1,
		Friction:   0.3,
	}
}

func DefaultWalls() WallConfig {
	return WallConfig{Enabled: true, Thickness: 5, Elasticity: 0.9, Friction: 0.5}
}

// Load reads a YAML file over DefaultConfig, so omitted fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = cloneBodies(c.Bodies)
	out.Slope.Blocks = cloneBodies(c.Slope.Blocks)
	return &out
}

func cloneBodies(in []BodyConfig) []BodyConfig {
	if in == nil {
		return nil
	}
	out := make([]BodyConfig, len(in))
	for i, b := range in {
		out[i] = b
		if b.Vertices != nil {
			out[i].Vertices = append([][2]float64(nil), b.Vertices...)
		}
	}
	return out
}

// Steps is the number of fixed steps that cover Duration.
func (c *Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var errs []error
	if !knownScenario(c.Scenario) {
		errs = append(errs, fmt.Errorf("unknown scenario: %q", c.Scenario))
	}
	if !finite(c.Dt) || c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if !finite(c.Duration) || c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	if !finite(c.Width, c.Height) || c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %gx%g", c.Width, c.Height))
	}
	if !finite(c.Gravity) {
		errs = append(errs, fmt.Errorf("gravity must be finite"))
	}
	if c.RandomBalls < 0 {
		errs = append(errs, fmt.Errorf("random_balls must be non-negative, got %d", c.RandomBalls))
	}
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("solver: %w", err))
	}
	if c.Walls.Enabled {
		if err := checkMaterial(c.Walls.Elasticity, c.Walls.Friction); err != nil {
			errs = append(errs, fmt.Errorf("walls: %w", err))
		}
		if !finite(c.Walls.Thickness) || c.Walls.Thickness < 0 {
			errs = append(errs, fmt.Errorf("walls: thickness must be non-negative"))
		}
	}
	for i, b := range c.Bodies {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bodies[%d]: %w", i, err))
		}
	}

	switch c.Scenario {
	case ScenarioPendulum:
		errs = append(errs, c.Pendulum.validate())
	case ScenarioCentripetal:
		errs = append(errs, c.Centripetal.validate())
	case ScenarioSlope:
		errs = append(errs, c.Slope.validate())
	case ScenarioCar:
		errs = append(errs, c.Car.validate())
	}
	return errors.Join(errs...)
}

func (b BodyConfig) Validate() error {
	var errs []error
	if !finite(b.X, b.Y, b.VX, b.VY, b.AX, b.AY, b.Angle) {
		errs = append(errs, errors.New("position, velocity, acceleration and angle must be finite"))
	}
	dynamic := !b.Static && b.Type != TypeSegment
	if dynamic && (!finite(b.Mass) || b.Mass <= 0) {
		errs = append(errs, fmt.Errorf("mass must be positive, got %g", b.Mass))
	}
	switch b.Type {
	case TypeCircle:
		if !finite(b.Radius) || b.Radius <= 0 {
			errs = append(errs, fmt.Errorf("radius must be positive, got %g", b.Radius))
		}
	case TypeBox:
		if !finite(b.Width, b.Height) || b.Width <= 0 || b.Height <= 0 {
			errs = append(errs, fmt.Errorf("box size must be positive, got %gx%g", b.Width, b.Height))
		}
	case TypePolygon:
		if len(b.Vertices) < 3 {
			errs = append(errs, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(b.Vertices)))
		}
	case TypeSegment:
		if len(b.Vertices) != 2 {
			errs = append(errs, fmt.Errorf("segment needs exactly 2 vertices, got %d", len(b.Vertices)))
		}
		if !finite(b.Thickness) || b.Thickness < 0 {
			errs = append(errs, fmt.Errorf("thickness must be non-negative, got %g", b.Thickness))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown body type: %q", b.Type))
	}
	for i, v := range b.Vertices {
		if !finite(v[0], v[1]) {
			errs = append(errs, fmt.Errorf("vertex %d must be finite", i))
		}
	}
	if err := checkMaterial(b.Elasticity, b.Friction); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p PendulumConfig) validate() error {
	var errs []error
	if p.Anchor == p.Bob {
		errs = append(errs, errors.New("pendulum: bob must not sit on the anchor"))
	}
	if !finite(p.Mass) || p.Mass <= 0 {
		errs = append(errs, fmt.Errorf("pendulum: mass must be positive, got %g", p.Mass))
	}
	if !finite(p.Radius) || p.Radius <= 0 {
		errs = append(errs, fmt.Errorf("pendulum: radius must be positive, got %g", p.Radius))
	}
	if err := checkMaterial(p.Elasticity, 0); err != nil {
		errs = append(errs, fmt.Errorf("pendulum: %w", err))
	}
	return errors.Join(errs...)
}

func (c CentripetalConfig) validate() error {
	var errs []error
	if !finite(c.Orbit) || c.Orbit <= 0 {
		errs = append(errs, fmt.Errorf("centripetal: orbit must be positive, got %g", c.Orbit))
	}
	if !finite(c.Speed) {
		errs = append(errs, errors.New("centripetal: speed must be finite"))
	}
	if !finite(c.Mass) || c.Mass <= 0 {
		errs = append(errs, fmt.Errorf("centripetal: mass must be positive, got %g", c.Mass))
	}
	if !finite(c.Radius) || c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("centripetal: radius must be positive, got %g", c.Radius))
	}
	if err := checkMaterial(c.Elasticity, c.Friction); err != nil {
		errs = append(errs, fmt.Errorf("centripetal: %w", err))
	}
	return errors.Join(errs...)
}

func (s SlopeConfig) validate() error {
	var errs []error
	if s.From == s.To {
		errs = append(errs, errors.New("slope: endpoints coincide"))
	}
	if !finite(s.Thickness) || s.Thickness < 0 {
		errs = append(errs, fmt.Errorf("slope: thickness must be non-negative, got %g", s.Thickness))
	}
	if err := checkMaterial(s.Elasticity, s.Friction); err != nil {
		errs = append(errs, fmt.Errorf("slope: %w", err))
	}
	for i, b := range s.Blocks {
		if b.Static || b.Type == TypeSegment {
			errs = append(errs, fmt.Errorf("slope: blocks[%d] must be dynamic", i))
			continue
		}
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("slope: blocks[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (c CarConfig) validate() error {
	var errs []error
	if !finite(c.ChassisWidth, c.ChassisHeight) || c.ChassisWidth <= 0 || c.ChassisHeight <= 0 {
		errs = append(errs, errors.New("car: chassis size must be positive"))
	}
	if !finite(c.ChassisMass, c.WheelMass) || c.ChassisMass <= 0 || c.WheelMass <= 0 {
		errs = append(errs, errors.New("car: masses must be positive"))
	}
	if !finite(c.WheelRadius) || c.WheelRadius <= 0 {
		errs = append(errs, fmt.Errorf("car: wheel radius must be positive, got %g", c.WheelRadius))
	}
	if !finite(c.WheelBase) || c.WheelBase <= 0 {
		errs = append(errs, fmt.Errorf("car: wheel base must be positive, got %g", c.WheelBase))
	}
	if !finite(c.MotorRate, c.WheelDrop) {
		errs = append(errs, errors.New("car: motor rate and wheel drop must be finite"))
	}
	if !finite(c.MaxTorque) || c.MaxTorque < 0 {
		errs = append(errs, fmt.Errorf("car: max torque must be non-negative, got %g", c.MaxTorque))
	}
	if err := checkMaterial(0, c.Friction); err != nil {
		errs = append(errs, fmt.Errorf("car: %w", err))
	}
	return errors.Join(errs...)
}

func checkMaterial(e, f float64) error {
	if !finite(e) || e < 0 || e > 1 {
		return fmt.Errorf("elasticity must lie in [0,1], got %g", e)
	}
	if !finite(f) || f < 0 {
		return fmt.Errorf("friction must be non-negative, got %g", f)
	}
	return nil
}

func knownScenario(name string) bool {
	for _, s := range Scenarios {
		if s == name {
			return true
		}
	}
	return false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
