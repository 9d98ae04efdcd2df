// Package codec contains the pure byte-level decoders and encoders for
// the Thingy:52 GATT characteristics. Nothing in this package performs
// I/O; every function takes bytes in, returns a typed value (or an
// error) out.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Error reports a malformed characteristic payload.
type Error struct {
	What        string
	ExpectedLen int
	GotLen      int
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec: %s: expected %d bytes, got %d", e.What, e.ExpectedLen, e.GotLen)
}

func lenErr(what string, want, got int) error {
	return &Error{What: what, ExpectedLen: want, GotLen: got}
}

// rangeErr reports a value that decoded cleanly but fell outside the
// documented vendor range.
type rangeErr struct {
	What string
	Got  float64
	Min  float64
	Max  float64
}

func (e *rangeErr) Error() string {
	return fmt.Sprintf("codec: %s: value %v outside range [%v, %v]", e.What, e.Got, e.Min, e.Max)
}

// Vec3 is a generic three-axis reading used by RawMotion.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Temperature decodes the 2-byte Environment Service temperature payload.
// Format: int8 integer_celsius, uint8 hundredths.
func Temperature(b []byte) (float64, error) {
	if len(b) != 2 {
		return 0, lenErr("temperature", 2, len(b))
	}
	integer := int8(b[0])
	hundredths := b[1]
	celsius := float64(integer) + float64(hundredths)/100.0
	if celsius < -40.0 || celsius > 85.0 {
		return 0, &rangeErr{"temperature", celsius, -40.0, 85.0}
	}
	return celsius, nil
}

// Humidity decodes the 1-byte humidity payload: uint8 percent, [0,100].
func Humidity(b []byte) (int, error) {
	if len(b) != 1 {
		return 0, lenErr("humidity", 1, len(b))
	}
	percent := int(b[0])
	if percent > 100 {
		return 0, &rangeErr{"humidity", float64(percent), 0, 100}
	}
	return percent, nil
}

// Pressure decodes the 5-byte pressure payload: int32 LE integer_pascals,
// uint8 hundredths_pascal. Reported value is hPa, range [260, 1260].
func Pressure(b []byte) (float64, error) {
	if len(b) != 5 {
		return 0, lenErr("pressure", 5, len(b))
	}
	integer := int32(binary.LittleEndian.Uint32(b[0:4]))
	hundredths := b[4]
	hpa := (float64(integer)*100 + float64(hundredths)) / 10000.0
	if hpa < 260.0 || hpa > 1260.0 {
		return 0, &rangeErr{"pressure", hpa, 260.0, 1260.0}
	}
	return hpa, nil
}

// AirQuality holds decoded CO2/TVOC readings.
type AirQuality struct {
	CO2PPM  int `json:"co2_ppm"`
	TVOCPPB int `json:"tvoc_ppb"`
}

// DecodeAirQuality decodes the 4-byte air quality payload:
// uint16 LE co2_ppm, uint16 LE tvoc_ppb.
func DecodeAirQuality(b []byte) (AirQuality, error) {
	if len(b) != 4 {
		return AirQuality{}, lenErr("air_quality", 4, len(b))
	}
	co2 := int(binary.LittleEndian.Uint16(b[0:2]))
	tvoc := int(binary.LittleEndian.Uint16(b[2:4]))
	if co2 < 400 || co2 > 8192 {
		return AirQuality{}, &rangeErr{"air_quality.co2_ppm", float64(co2), 400, 8192}
	}
	if tvoc < 0 || tvoc > 1187 {
		return AirQuality{}, &rangeErr{"air_quality.tvoc_ppb", float64(tvoc), 0, 1187}
	}
	return AirQuality{CO2PPM: co2, TVOCPPB: tvoc}, nil
}

// Color holds decoded RGBC channel readings, each in [0, 65535].
type Color struct {
	R     int `json:"r"`
	G     int `json:"g"`
	B     int `json:"b"`
	Clear int `json:"clear"`
}

// DecodeColor decodes the 8-byte color sensor payload: four uint16 LE
// channels, in order R, G, B, Clear.
func DecodeColor(b []byte) (Color, error) {
	if len(b) != 8 {
		return Color{}, lenErr("color", 8, len(b))
	}
	return Color{
		R:     int(binary.LittleEndian.Uint16(b[0:2])),
		G:     int(binary.LittleEndian.Uint16(b[2:4])),
		B:     int(binary.LittleEndian.Uint16(b[4:6])),
		Clear: int(binary.LittleEndian.Uint16(b[6:8])),
	}, nil
}

// EncodeColor is the inverse of DecodeColor, used by round-trip tests.
func EncodeColor(c Color) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:2], uint16(c.R))
	binary.LittleEndian.PutUint16(b[2:4], uint16(c.G))
	binary.LittleEndian.PutUint16(b[4:6], uint16(c.B))
	binary.LittleEndian.PutUint16(b[6:8], uint16(c.Clear))
	return b
}

// BatteryLevel decodes the standard 1-byte Battery Level characteristic.
func BatteryLevel(b []byte) (int, error) {
	if len(b) != 1 {
		return 0, lenErr("battery_level", 1, len(b))
	}
	percent := int(b[0])
	if percent > 100 {
		return 0, &rangeErr{"battery_level", float64(percent), 0, 100}
	}
	return percent, nil
}

// Quaternion holds a decoded unit quaternion.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

const q30 = 1 << 30

// DecodeQuaternion decodes the 16-byte quaternion payload: four int32 LE
// Q30 fixed-point values, in order W, X, Y, Z.
func DecodeQuaternion(b []byte) (Quaternion, error) {
	if len(b) != 16 {
		return Quaternion{}, lenErr("quaternion", 16, len(b))
	}
	return Quaternion{
		W: q30ToFloat(b[0:4]),
		X: q30ToFloat(b[4:8]),
		Y: q30ToFloat(b[8:12]),
		Z: q30ToFloat(b[12:16]),
	}, nil
}

// EncodeQuaternion is the inverse of DecodeQuaternion, used by round-trip tests.
func EncodeQuaternion(q Quaternion) []byte {
	b := make([]byte, 16)
	floatToQ30(b[0:4], q.W)
	floatToQ30(b[4:8], q.X)
	floatToQ30(b[8:12], q.Y)
	floatToQ30(b[12:16], q.Z)
	return b
}

func q30ToFloat(b []byte) float64 {
	v := int32(binary.LittleEndian.Uint32(b))
	return float64(v) / q30
}

func floatToQ30(b []byte, f float64) {
	v := int32(math.Round(f * q30))
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// Euler holds decoded roll/pitch/yaw readings, in degrees.
type Euler struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

const q16 = 1 << 16

// DecodeEuler decodes the 12-byte Euler payload: three int32 LE Q16
// fixed-point degree values, in order roll, pitch, yaw.
func DecodeEuler(b []byte) (Euler, error) {
	if len(b) != 12 {
		return Euler{}, lenErr("euler", 12, len(b))
	}
	return Euler{
		Roll:  q16ToFloat(b[0:4]),
		Pitch: q16ToFloat(b[4:8]),
		Yaw:   q16ToFloat(b[8:12]),
	}, nil
}

func q16ToFloat(b []byte) float64 {
	v := int32(binary.LittleEndian.Uint32(b))
	return float64(v) / q16
}

// Heading decodes the 4-byte heading payload: int32 LE Q16 degrees,
// normalized to [0, 360).
func Heading(b []byte) (float64, error) {
	if len(b) != 4 {
		return 0, lenErr("heading", 4, len(b))
	}
	deg := q16ToFloat(b)
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg, nil
}

// Orientation is the enumerated device-orientation value.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
	ReversePortrait
	ReverseLandscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case ReversePortrait:
		return "reverse_portrait"
	case ReverseLandscape:
		return "reverse_landscape"
	default:
		return "unknown"
	}
}

// DecodeOrientation decodes the 1-byte orientation payload, enumerated 0..3.
func DecodeOrientation(b []byte) (Orientation, error) {
	if len(b) != 1 {
		return 0, lenErr("orientation", 1, len(b))
	}
	if b[0] > 3 {
		return 0, &rangeErr{"orientation", float64(b[0]), 0, 3}
	}
	return Orientation(b[0]), nil
}

// StepCount holds decoded pedometer readings.
type StepCount struct {
	Steps     uint32
	ElapsedMS uint32
}

// DecodeStepCount decodes the 8-byte step counter payload: uint32 LE
// steps, uint32 LE elapsed_ms.
func DecodeStepCount(b []byte) (StepCount, error) {
	if len(b) != 8 {
		return StepCount{}, lenErr("step_counter", 8, len(b))
	}
	return StepCount{
		Steps:     binary.LittleEndian.Uint32(b[0:4]),
		ElapsedMS: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

// TapEvent holds a decoded tap notification.
type TapEvent struct {
	Direction int
	Count     int
}

// DecodeTapEvent decodes the 2-byte tap payload: uint8 direction, uint8 count.
func DecodeTapEvent(b []byte) (TapEvent, error) {
	if len(b) != 2 {
		return TapEvent{}, lenErr("tap", 2, len(b))
	}
	return TapEvent{Direction: int(b[0]), Count: int(b[1])}, nil
}

// RawMotion holds decoded accelerometer/gyroscope/magnetometer vectors.
type RawMotion struct {
	Accel Vec3 `json:"accel_g"`
	Gyro  Vec3 `json:"gyro_deg_per_s"`
	Mag   Vec3 `json:"mag_ut"`
}

// DecodeRawMotion decodes the 18-byte raw motion payload: three 3-vectors
// of int16 LE, in order accelerometer (Q10 g), gyroscope (Q5 deg/s),
// magnetometer (Q4 uT).
func DecodeRawMotion(b []byte) (RawMotion, error) {
	if len(b) != 18 {
		return RawMotion{}, lenErr("raw_motion", 18, len(b))
	}
	return RawMotion{
		Accel: Vec3{
			X: int16Q(b[0:2], 10),
			Y: int16Q(b[2:4], 10),
			Z: int16Q(b[4:6], 10),
		},
		Gyro: Vec3{
			X: int16Q(b[6:8], 5),
			Y: int16Q(b[8:10], 5),
			Z: int16Q(b[10:12], 5),
		},
		Mag: Vec3{
			X: int16Q(b[12:14], 4),
			Y: int16Q(b[14:16], 4),
			Z: int16Q(b[16:18], 4),
		},
	}, nil
}

func int16Q(b []byte, q uint) float64 {
	v := int16(binary.LittleEndian.Uint16(b))
	return float64(v) / float64(int(1)<<q)
}

// EncodeRawMotion is the inverse of DecodeRawMotion, used by round-trip tests.
func EncodeRawMotion(m RawMotion) []byte {
	b := make([]byte, 18)
	putInt16Q(b[0:2], m.Accel.X, 10)
	putInt16Q(b[2:4], m.Accel.Y, 10)
	putInt16Q(b[4:6], m.Accel.Z, 10)
	putInt16Q(b[6:8], m.Gyro.X, 5)
	putInt16Q(b[8:10], m.Gyro.Y, 5)
	putInt16Q(b[10:12], m.Gyro.Z, 5)
	putInt16Q(b[12:14], m.Mag.X, 4)
	putInt16Q(b[14:16], m.Mag.Y, 4)
	putInt16Q(b[16:18], m.Mag.Z, 4)
	return b
}

func putInt16Q(b []byte, f float64, q uint) {
	v := int16(math.Round(f * float64(int(1)<<q)))
	binary.LittleEndian.PutUint16(b, uint16(v))
}
