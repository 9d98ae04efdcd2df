package session

import (
	"context"
	"encoding/binary"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/registry"
)

// MotionFrequencies sets the fusion-engine update rate, in Hz, for each
// motion output the firmware can produce.
type MotionFrequencies struct {
	StepCountHz int
	TempCompHz  int
	MagnetHz    int
	MotionHz    int // quaternion/euler/heading/orientation/raw/gravity
}

// DefaultMotionFrequencies returns the frequency set used by
// auto-configure-on-first-use.
func DefaultMotionFrequencies(hz int) MotionFrequencies {
	return MotionFrequencies{
		StepCountHz: hz,
		TempCompHz:  hz,
		MagnetHz:    hz,
		MotionHz:    hz,
	}
}

// encodeMotionConfig serializes the motion configuration record: four
// uint16 LE frequencies, in order step counter, temperature
// compensation, magnetometer, motion (fusion) — the layout the Motion
// service's configuration characteristic expects.
func encodeMotionConfig(f MotionFrequencies) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:2], uint16(f.StepCountHz))
	binary.LittleEndian.PutUint16(b[2:4], uint16(f.TempCompHz))
	binary.LittleEndian.PutUint16(b[4:6], uint16(f.MagnetHz))
	binary.LittleEndian.PutUint16(b[6:8], uint16(f.MotionHz))
	return b
}

// ConfigureMotion writes the motion-configuration record. Idempotent:
// repeated calls simply rewrite the same characteristic.
func (s *Session) ConfigureMotion(ctx context.Context, freq MotionFrequencies) error {
	s.opLock.Lock()
	defer s.opLock.Unlock()
	return s.configureMotionLocked(ctx, freq)
}

func (s *Session) configureMotionLocked(ctx context.Context, freq MotionFrequencies) error {
	char, err := registry.Lookup("motion_config")
	if err != nil {
		return newErr(KindInvalidArgument, "%v", err)
	}
	link, _, err := s.requireConnected()
	if err != nil {
		return err
	}
	gattChar, err := link.Characteristic(char.Service, char.UUID)
	if err != nil {
		return newErr(KindNotFound, "%v", err)
	}
	if err := gattChar.Write(encodeMotionConfig(freq), false); err != nil {
		return newErr(KindTimeout, "configure_motion: %v", err)
	}

	s.stateMu.Lock()
	s.motionConfigured = true
	s.stateMu.Unlock()

	return nil
}

// ensureMotionConfigured implements the auto-configure-on-first-use
// policy: the first motion-fusion read transparently configures
// motion with the defaults before sampling.
func (s *Session) ensureMotionConfigured(ctx context.Context) error {
	s.stateMu.Lock()
	configured := s.motionConfigured
	s.stateMu.Unlock()
	if configured {
		return nil
	}

	s.opLock.Lock()
	defer s.opLock.Unlock()

	s.stateMu.Lock()
	configured = s.motionConfigured
	s.stateMu.Unlock()
	if configured {
		return nil
	}

	return s.configureMotionLocked(ctx, DefaultMotionFrequencies(s.opts.DefaultMotionFrequencyHz))
}
