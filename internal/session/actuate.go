package session

import (
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/codec"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/registry"
)

// writeActuator acquires opLock, verifies Connected, writes without
// response, and releases the lock. No confirmation payload is
// expected from the firmware.
func (s *Session) writeActuator(key string, payload []byte) error {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	char, err := registry.Lookup(key)
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
	if writeErr := gattChar.Write(payload, false); writeErr != nil {
		return newErr(KindTimeout, "write %s: %v", key, writeErr)
	}
	return nil
}

// SetLEDOff turns the LED off.
func (s *Session) SetLEDOff() error {
	return s.writeActuator("led", codec.EncodeLEDOff())
}

// SetLEDConstant turns the LED on with a constant RGB color, each
// channel 0..255.
func (s *Session) SetLEDConstant(r, g, b int) error {
	payload, err := codec.EncodeLEDConstant(r, g, b)
	if err != nil {
		return invalidArgument("rgb", err.Error())
	}
	return s.writeActuator("led", payload)
}

// SetLEDBreathe sets the LED to breathing mode using a named breathe
// color code (1..7, see codec.BreatheColorCodes).
func (s *Session) SetLEDBreathe(colorCode, intensity, delayMs int) error {
	payload, err := codec.EncodeLEDBreathe(colorCode, intensity, delayMs)
	if err != nil {
		return invalidArgument("color_code", err.Error())
	}
	return s.writeActuator("led", payload)
}

// PlaySound triggers one of the eight preset sound effects.
func (s *Session) PlaySound(soundID int) error {
	payload, err := codec.EncodeSoundPreset(soundID)
	if err != nil {
		return invalidArgument("sound_id", err.Error())
	}
	return s.writeActuator("speaker_data", payload)
}
