// Package synth turns a YAML target scenario into a Beast stream of
// synthesized Extended Squitter frames.
package synth

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/beast"
	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/beastframe"
)

// Spacing of synthesized frames on the 12 MHz Beast timestamp counter.
const frameSpacingTicks = 6000 // 500 microseconds

// Target is one aircraft state to synthesize frames for.
type Target struct {
	ICAO            string   `yaml:"icao"`
	Variant         string   `yaml:"variant"`
	Lat             float64  `yaml:"lat"`
	Lon             float64  `yaml:"lon"`
	AltitudeFt      *float64 `yaml:"altitude_ft"`
	NSVelocityKt    *float64 `yaml:"ns_kt"`
	EWVelocityKt    *float64 `yaml:"ew_kt"`
	VerticalRateFpm *float64 `yaml:"vrate_fpm"`
}

// Scenario is the YAML file shape consumed by the synth command.
type Scenario struct {
	Signal  uint8    `yaml:"signal"`
	Targets []Target `yaml:"targets"`
}

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if len(scenario.Targets) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s has no targets", path)
	}
	for i, target := range scenario.Targets {
		if _, err := target.Address(); err != nil {
			return Scenario{}, fmt.Errorf("target %d: %w", i, err)
		}
		if _, err := target.FrameVariant(); err != nil {
			return Scenario{}, fmt.Errorf("target %d: %w", i, err)
		}
		if target.Lat < -90 || target.Lat > 90 {
			return Scenario{}, fmt.Errorf("target %d: latitude %v out of range", i, target.Lat)
		}
		if target.Lon < -180 || target.Lon > 180 {
			return Scenario{}, fmt.Errorf("target %d: longitude %v out of range", i, target.Lon)
		}
	}
	return scenario, nil
}

// Address parses the target's hex ICAO identifier (24 bits).
func (t Target) Address() (uint32, error) {
	addr, err := strconv.ParseUint(t.ICAO, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid icao %q: %w", t.ICAO, err)
	}
	if addr > 0xFFFFFF {
		return 0, fmt.Errorf("icao %q exceeds 24 bits", t.ICAO)
	}
	return uint32(addr), nil
}

// FrameVariant maps the scenario variant name to a frame variant. An
// empty name defaults to the standard DF18 squitter.
func (t Target) FrameVariant() (beastframe.Variant, error) {
	switch strings.ToLower(t.Variant) {
	case "", "df18":
		return beastframe.Df18, nil
	case "df18anon":
		return beastframe.Df18Anonymous, nil
	case "df18track":
		return beastframe.Df18Track, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", t.Variant)
	}
}

// Synthesizer writes Beast-wrapped frames with a monotonically
// advancing 12 MHz timestamp.
type Synthesizer struct {
	logger *logrus.Logger
	ticks  uint64
}

// New creates a synthesizer.
func New(logger *logrus.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Run synthesizes all frames for the scenario and writes the Beast
// stream to w. Each target yields an even/odd position frame pair and,
// when any velocity field is present, one velocity frame. Returns the
// number of frames written.
func (s *Synthesizer) Run(scenario Scenario, w io.Writer) (int, error) {
	written := 0
	for i, target := range scenario.Targets {
		addr, err := target.Address()
		if err != nil {
			return written, fmt.Errorf("target %d: %w", i, err)
		}
		variant, err := target.FrameVariant()
		if err != nil {
			return written, fmt.Errorf("target %d: %w", i, err)
		}

		even, odd, err := beastframe.MakePositionFramePair(addr, target.Lat, target.Lon, target.AltitudeFt, variant)
		if err != nil {
			return written, fmt.Errorf("target %d: position pair: %w", i, err)
		}

		frames := []beastframe.Frame{even, odd}
		if target.NSVelocityKt != nil || target.EWVelocityKt != nil || target.VerticalRateFpm != nil {
			velocity, err := beastframe.MakeVelocityFrame(addr, target.NSVelocityKt, target.EWVelocityKt, target.VerticalRateFpm, variant)
			if err != nil {
				return written, fmt.Errorf("target %d: velocity: %w", i, err)
			}
			frames = append(frames, velocity)
		}

		for _, frame := range frames {
			wire, err := beast.Encode(beast.TypeModeSLong, s.nextTimestamp(), scenario.Signal, frame[:])
			if err != nil {
				return written, fmt.Errorf("target %d: beast encode: %w", i, err)
			}
			if _, err := w.Write(wire); err != nil {
				return written, fmt.Errorf("target %d: write: %w", i, err)
			}
			written++
		}

		s.logger.WithFields(logrus.Fields{
			"icao":    fmt.Sprintf("%06X", addr),
			"variant": variant.String(),
			"frames":  len(frames),
		}).Debug("Synthesized target")
	}
	return written, nil
}

// nextTimestamp advances the 48-bit 12 MHz counter by one frame slot.
func (s *Synthesizer) nextTimestamp() uint64 {
	s.ticks += frameSpacingTicks
	return s.ticks & 0xFFFFFFFFFFFF
}
