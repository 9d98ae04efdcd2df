package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemperatureDecode(t *testing.T) {
	for i := int8(-40); i <= 85; i += 5 {
		for _, d := range []uint8{0, 1, 50, 99} {
			want := float64(i) + float64(d)/100.0
			if want < -40.0 || want > 85.0 {
				continue
			}
			celsius, err := Temperature([]byte{byte(i), d})
			require.NoError(t, err)
			require.InDelta(t, want, celsius, 1e-9)
		}
	}
}

func TestTemperatureScenarioB(t *testing.T) {
	celsius, err := Temperature([]byte{0x17, 0x32})
	require.NoError(t, err)
	require.InDelta(t, 23.50, celsius, 1e-9)
}

func TestTemperatureWrongLength(t *testing.T) {
	_, err := Temperature([]byte{0x01})
	require.Error(t, err)
}

func TestHumidityRejectsOverHundred(t *testing.T) {
	_, err := Humidity([]byte{101})
	require.Error(t, err)
	_, err = Humidity([]byte{100})
	require.NoError(t, err)
}

func TestAirQualityScenarioC(t *testing.T) {
	aq, err := DecodeAirQuality([]byte{0x58, 0x02, 0x4B, 0x00})
	require.NoError(t, err)
	require.Equal(t, 600, aq.CO2PPM)
	require.Equal(t, 75, aq.TVOCPPB)
}

func TestAirQualityOutOfRange(t *testing.T) {
	_, err := DecodeAirQuality([]byte{0x00, 0x00, 0x00, 0x00}) // co2=0, below min
	require.Error(t, err)
}

func TestColorRoundTrip(t *testing.T) {
	c := Color{R: 1000, G: 2000, B: 3000, Clear: 65535}
	decoded, err := DecodeColor(EncodeColor(c))
	require.NoError(t, err)
	require.Equal(t, c, decoded)
}

func TestBatteryLevelRange(t *testing.T) {
	_, err := BatteryLevel([]byte{100})
	require.NoError(t, err)
	_, err = BatteryLevel([]byte{101})
	require.Error(t, err)
}

func TestQuaternionRoundTrip(t *testing.T) {
	q := Quaternion{W: 0.5, X: -0.5, Y: 0.25, Z: -0.25}
	decoded, err := DecodeQuaternion(EncodeQuaternion(q))
	require.NoError(t, err)
	require.InDelta(t, q.W, decoded.W, 1.0/q30)
	require.InDelta(t, q.X, decoded.X, 1.0/q30)
	require.InDelta(t, q.Y, decoded.Y, 1.0/q30)
	require.InDelta(t, q.Z, decoded.Z, 1.0/q30)
}

func TestHeadingNormalizes(t *testing.T) {
	deg, err := Heading(encodeQ16(-10))
	require.NoError(t, err)
	require.InDelta(t, 350.0, deg, 1e-3)
}

func encodeQ16(deg float64) []byte {
	b := make([]byte, 4)
	v := int32(math.Round(deg * q16))
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}

func TestOrientationRejectsOutOfRange(t *testing.T) {
	_, err := DecodeOrientation([]byte{4})
	require.Error(t, err)
	o, err := DecodeOrientation([]byte{2})
	require.NoError(t, err)
	require.Equal(t, "reverse_portrait", o.String())
}

func TestRawMotionRoundTrip(t *testing.T) {
	m := RawMotion{
		Accel: Vec3{X: 1.0, Y: -1.0, Z: 0.5},
		Gyro:  Vec3{X: 10, Y: -10, Z: 5},
		Mag:   Vec3{X: 100, Y: -100, Z: 50},
	}
	decoded, err := DecodeRawMotion(EncodeRawMotion(m))
	require.NoError(t, err)
	require.InDelta(t, m.Accel.X, decoded.Accel.X, 1.0/1024)
	require.InDelta(t, m.Gyro.X, decoded.Gyro.X, 1.0/32)
	require.InDelta(t, m.Mag.X, decoded.Mag.X, 1.0/16)
}

func TestDecodersAreTotalOverWellFormedPayloads(t *testing.T) {
	lengths := map[string]int{
		"temperature": 2, "humidity": 1, "pressure": 5, "air_quality": 4,
		"color": 8, "battery": 1, "quaternion": 16, "euler": 12,
		"heading": 4, "orientation": 1, "step_counter": 8, "tap": 2, "raw_motion": 18,
	}
	for name, n := range lengths {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i * 37 % 256)
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("%s decoder panicked on well-formed payload: %v", name, r)
				}
			}()
			switch name {
			case "temperature":
				_, _ = Temperature(b)
			case "humidity":
				_, _ = Humidity(b)
			case "pressure":
				_, _ = Pressure(b)
			case "air_quality":
				_, _ = DecodeAirQuality(b)
			case "color":
				_, _ = DecodeColor(b)
			case "battery":
				_, _ = BatteryLevel(b)
			case "quaternion":
				_, _ = DecodeQuaternion(b)
			case "euler":
				_, _ = DecodeEuler(b)
			case "heading":
				_, _ = Heading(b)
			case "orientation":
				b[0] = b[0] % 4
				_, _ = DecodeOrientation(b)
			case "step_counter":
				_, _ = DecodeStepCount(b)
			case "tap":
				_, _ = DecodeTapEvent(b)
			case "raw_motion":
				_, _ = DecodeRawMotion(b)
			}
		}()
	}
}
