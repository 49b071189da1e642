package layout

import (
	"fmt"
	"math"
)

const (
	DefaultWidth        = 960
	DefaultHeight       = 500
	DefaultCharge       = -120.0
	DefaultLinkDistance = 40.0
	DefaultLinkStrength = 1.0
	DefaultFriction     = 0.9
	DefaultGravity      = 0.1
	DefaultTheta        = 0.8
	DefaultAlpha        = 0.1
	DefaultAlphaDecay   = 0.99
	DefaultAlphaMin     = 0.005
)

type Config struct {
	Width        float64
	Height       float64
	Charge       float64
	LinkDistance float64
	LinkStrength float64
	Friction     float64
	Gravity      float64
	Theta        float64
	// ChargeDistance caps the repulsion range; zero means unbounded.
	ChargeDistance float64

	// Alpha is the temperature a start or reheat sets.
	Alpha      float64
	AlphaDecay float64
	AlphaMin   float64

	Seed int64
	// FrameRate paces Run; zero ticks as fast as possible.
	FrameRate int
	// MaxTicks bounds Run for batch output; zero means run until cool.
	MaxTicks int
}

func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Charge:       DefaultCharge,
		LinkDistance: DefaultLinkDistance,
		LinkStrength: DefaultLinkStrength,
		Friction:     DefaultFriction,
		Gravity:      DefaultGravity,
		Theta:        DefaultTheta,
		Alpha:        DefaultAlpha,
		AlphaDecay:   DefaultAlphaDecay,
		AlphaMin:     DefaultAlphaMin,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	case c.LinkDistance < 0:
		return fmt.Errorf("%w: link distance must be >= 0, got %g", ErrInvalidConfig, c.LinkDistance)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction must be in [0,1], got %g", ErrInvalidConfig, c.Friction)
	case c.Theta < 0:
		return fmt.Errorf("%w: theta must be >= 0, got %g", ErrInvalidConfig, c.Theta)
	case c.Alpha <= 0:
		return fmt.Errorf("%w: alpha must be positive, got %g", ErrInvalidConfig, c.Alpha)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return fmt.Errorf("%w: alpha decay must be in (0,1), got %g", ErrInvalidConfig, c.AlphaDecay)
	case c.FrameRate < 0 || c.MaxTicks < 0:
		return fmt.Errorf("%w: frame rate and max ticks must be >= 0", ErrInvalidConfig)
	}
	return nil
}

func (c Config) chargeDistance2() float64 {
	if c.ChargeDistance <= 0 {
		return math.Inf(1)
	}
	return c.ChargeDistance * c.ChargeDistance
}
