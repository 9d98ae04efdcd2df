package codec

import "fmt"

// LED write modes, per byte 0 of the 4-byte LED characteristic payload.
const (
	ledModeOff      = 0
	ledModeConstant = 1
	ledModeBreathe  = 2
	ledModeOneShot  = 3
)

// NamedColors maps lowercase English color names to constant-mode RGB
// triplets, each channel 0..255.
var NamedColors = map[string][3]int{
	"red":        {255, 0, 0},
	"green":      {0, 255, 0},
	"blue":       {0, 0, 255},
	"white":      {255, 255, 255},
	"warm_white": {255, 223, 186},
	"cool_white": {208, 232, 255},
	"yellow":     {255, 255, 0},
	"cyan":       {0, 255, 255},
	"magenta":    {255, 0, 255},
	"purple":     {128, 0, 128},
	"orange":     {255, 165, 0},
	"pink":       {255, 105, 180},
}

// BreatheColorCodes maps the 7 breathe-mode color names to their
// firmware color codes, 1..7.
var BreatheColorCodes = map[string]int{
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"cyan":    5,
	"magenta": 6,
	"white":   7,
}

// EncodeLEDOff encodes the LED-off command: mode 0, params ignored.
// Always exactly 4 bytes — a 5-byte write is rejected by the firmware
// as "not permitted".
func EncodeLEDOff() []byte {
	return []byte{ledModeOff, 0, 0, 0}
}

// EncodeLEDConstant encodes a constant-RGB LED command. r, g, b must
// each be in [0, 255].
func EncodeLEDConstant(r, g, b int) ([]byte, error) {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return nil, fmt.Errorf("codec: led constant: rgb channels must be 0..255, got (%d,%d,%d)", r, g, b)
	}
	return []byte{ledModeConstant, byte(r), byte(g), byte(b)}, nil
}

// EncodeLEDBreathe encodes a breathing LED command. colorCode must be
// in [1,7] (see BreatheColorCodes); intensity in [0,100]; delayMs in
// [50,10000]. This firmware's breathe mode only accepts a named color
// code, never an RGB triplet. delayMs is range-checked but not encoded:
// the payload is [mode, colorCode, intensity, 0].
func EncodeLEDBreathe(colorCode, intensity, delayMs int) ([]byte, error) {
	if colorCode < 1 || colorCode > 7 {
		return nil, fmt.Errorf("codec: led breathe: color code must be 1..7, got %d", colorCode)
	}
	if intensity < 0 || intensity > 100 {
		return nil, fmt.Errorf("codec: led breathe: intensity must be 0..100, got %d", intensity)
	}
	if delayMs < 50 || delayMs > 10000 {
		return nil, fmt.Errorf("codec: led breathe: delay_ms must be 50..10000, got %d", delayMs)
	}
	return []byte{ledModeBreathe, byte(colorCode), byte(intensity), 0}, nil
}

// EncodeLEDOneShot encodes a one-shot LED flash command, same byte
// layout as breathe.
func EncodeLEDOneShot(colorCode, intensity int) ([]byte, error) {
	if colorCode < 1 || colorCode > 7 {
		return nil, fmt.Errorf("codec: led one_shot: color code must be 1..7, got %d", colorCode)
	}
	if intensity < 0 || intensity > 100 {
		return nil, fmt.Errorf("codec: led one_shot: intensity must be 0..100, got %d", intensity)
	}
	return []byte{ledModeOneShot, byte(colorCode), byte(intensity), 0}, nil
}

// soundModeTriggerPreset is the sound-characteristic write mode for
// playing a preset sound effect.
const soundModeTriggerPreset = 3

// EncodeSoundPreset encodes a two-byte sound-preset write. soundID must
// be in [1,8].
func EncodeSoundPreset(soundID int) ([]byte, error) {
	if soundID < 1 || soundID > 8 {
		return nil, fmt.Errorf("codec: sound preset: sound_id must be 1..8, got %d", soundID)
	}
	return []byte{soundModeTriggerPreset, byte(soundID)}, nil
}

// BeepSoundID is the preset index used by the "beep" shorthand tool.
const BeepSoundID = 1
