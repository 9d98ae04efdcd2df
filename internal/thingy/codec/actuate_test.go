package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeLEDAlwaysFourBytes(t *testing.T) {
	off := EncodeLEDOff()
	require.Len(t, off, 4)

	constant, err := EncodeLEDConstant(255, 0, 0)
	require.NoError(t, err)
	require.Len(t, constant, 4)
	require.Equal(t, []byte{0x01, 0xFF, 0x00, 0x00}, constant)

	breathe, err := EncodeLEDBreathe(BreatheColorCodes["red"], 20, 1000)
	require.NoError(t, err)
	require.Len(t, breathe, 4)

	oneShot, err := EncodeLEDOneShot(BreatheColorCodes["blue"], 50)
	require.NoError(t, err)
	require.Len(t, oneShot, 4)
}

func TestEncodeLEDConstantScenarioD(t *testing.T) {
	full, err := EncodeLEDConstant(255, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0xFF, 0x00, 0x00}, full)

	scaled, err := EncodeLEDConstant(255*50/100, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x7F, 0x00, 0x00}, scaled)
}

func TestEncodeLEDConstantRejectsOutOfRange(t *testing.T) {
	_, err := EncodeLEDConstant(300, 0, 0)
	require.Error(t, err)
}

func TestEncodeLEDBreatheValidatesColorCode(t *testing.T) {
	_, err := EncodeLEDBreathe(0, 20, 1000)
	require.Error(t, err)
	_, err = EncodeLEDBreathe(8, 20, 1000)
	require.Error(t, err)
}

func TestEncodeLEDBreatheValidatesDelay(t *testing.T) {
	_, err := EncodeLEDBreathe(1, 20, 10)
	require.Error(t, err)
	_, err = EncodeLEDBreathe(1, 20, 20000)
	require.Error(t, err)
}

func TestEncodeSoundPresetScenarioE(t *testing.T) {
	payload, err := EncodeSoundPreset(BeepSoundID)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x01}, payload)
}

func TestEncodeSoundPresetValidatesRange(t *testing.T) {
	_, err := EncodeSoundPreset(0)
	require.Error(t, err)
	_, err = EncodeSoundPreset(9)
	require.Error(t, err)
}
