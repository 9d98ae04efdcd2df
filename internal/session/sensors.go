package session

import (
	"context"
	"fmt"
	"time"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/codec"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/registry"
)

func decodeErr(key string, err error) error {
	if lenErr, ok := err.(*codec.Error); ok {
		e := malformedPayload(key, lenErr.GotLen, lenErr.ExpectedLen)
		e.Message = fmt.Sprintf("%s: %v", key, err)
		return e
	}
	return newErr(KindMalformedPayload, "%s: %v", key, err)
}

// ReadTemperature samples the Environment Service temperature characteristic.
func (s *Session) ReadTemperature(ctx context.Context) (float64, error) {
	data, err := s.readSensor(ctx, "temperature")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.Temperature(data)
	if decErr != nil {
		return 0, decodeErr("temperature", decErr)
	}
	return v, nil
}

// ReadHumidity samples the humidity characteristic.
func (s *Session) ReadHumidity(ctx context.Context) (int, error) {
	data, err := s.readSensor(ctx, "humidity")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.Humidity(data)
	if decErr != nil {
		return 0, decodeErr("humidity", decErr)
	}
	return v, nil
}

// ReadPressure samples the pressure characteristic, in hPa.
func (s *Session) ReadPressure(ctx context.Context) (float64, error) {
	data, err := s.readSensor(ctx, "pressure")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.Pressure(data)
	if decErr != nil {
		return 0, decodeErr("pressure", decErr)
	}
	return v, nil
}

// ReadAirQuality samples the CO2/TVOC characteristic. The gas sensor
// produces no usable output until its mode is set, so the first call
// auto-configures it.
func (s *Session) ReadAirQuality(ctx context.Context) (codec.AirQuality, error) {
	if err := s.ensureEnvironmentConfigured(ctx); err != nil {
		return codec.AirQuality{}, err
	}
	data, err := s.readSensor(ctx, "air_quality")
	if err != nil {
		return codec.AirQuality{}, err
	}
	v, decErr := codec.DecodeAirQuality(data)
	if decErr != nil {
		return codec.AirQuality{}, decodeErr("air_quality", decErr)
	}
	return v, nil
}

// ReadColor samples the RGBC color sensor characteristic.
func (s *Session) ReadColor(ctx context.Context) (codec.Color, error) {
	data, err := s.readSensor(ctx, "color")
	if err != nil {
		return codec.Color{}, err
	}
	v, decErr := codec.DecodeColor(data)
	if decErr != nil {
		return codec.Color{}, decodeErr("color", decErr)
	}
	return v, nil
}

// ReadLightIntensity derives an approximate lux reading from the color
// sensor's clear channel. The Thingy:52 firmware does not expose a
// calibrated lux characteristic.
func (s *Session) ReadLightIntensity(ctx context.Context) (float64, error) {
	color, err := s.ReadColor(ctx)
	if err != nil {
		return 0, err
	}
	return float64(color.Clear), nil
}

// ReadBattery samples the standard Battery Level characteristic.
func (s *Session) ReadBattery(ctx context.Context) (int, error) {
	data, err := s.readSensor(ctx, "battery_level")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.BatteryLevel(data)
	if decErr != nil {
		return 0, decodeErr("battery_level", decErr)
	}
	return v, nil
}

// AllSensors aggregates the six environmental readings. Individual
// failures surface as nil with an accompanying error message rather
// than aborting the whole call.
type AllSensors struct {
	Temperature *float64
	Humidity    *int
	Pressure    *float64
	AirQuality  *codec.AirQuality
	Color       *codec.Color
	LightLux    *float64
	Errors      []string
}

// ReadAllSensors reads every environmental sensor, collecting
// individual failures instead of aborting on the first one.
func (s *Session) ReadAllSensors(ctx context.Context) AllSensors {
	var out AllSensors

	if v, err := s.ReadTemperature(ctx); err != nil {
		out.Errors = append(out.Errors, "temperature: "+err.Error())
	} else {
		out.Temperature = &v
	}
	if v, err := s.ReadHumidity(ctx); err != nil {
		out.Errors = append(out.Errors, "humidity: "+err.Error())
	} else {
		out.Humidity = &v
	}
	if v, err := s.ReadPressure(ctx); err != nil {
		out.Errors = append(out.Errors, "pressure: "+err.Error())
	} else {
		out.Pressure = &v
	}
	if v, err := s.ReadAirQuality(ctx); err != nil {
		out.Errors = append(out.Errors, "air_quality: "+err.Error())
	} else {
		out.AirQuality = &v
	}
	if v, err := s.ReadColor(ctx); err != nil {
		out.Errors = append(out.Errors, "color: "+err.Error())
	} else {
		out.Color = &v
	}
	if v, err := s.ReadLightIntensity(ctx); err != nil {
		out.Errors = append(out.Errors, "light: "+err.Error())
	} else {
		out.LightLux = &v
	}

	return out
}

// --- Motion-fusion sensors (require motion configuration) ---

// ReadQuaternion samples the fused-orientation quaternion characteristic.
func (s *Session) ReadQuaternion(ctx context.Context) (codec.Quaternion, error) {
	data, err := s.readMotionSensor(ctx, "quaternion")
	if err != nil {
		return codec.Quaternion{}, err
	}
	v, decErr := codec.DecodeQuaternion(data)
	if decErr != nil {
		return codec.Quaternion{}, decodeErr("quaternion", decErr)
	}
	return v, nil
}

// ReadEulerAngles samples the fused-orientation Euler characteristic.
func (s *Session) ReadEulerAngles(ctx context.Context) (codec.Euler, error) {
	data, err := s.readMotionSensor(ctx, "euler")
	if err != nil {
		return codec.Euler{}, err
	}
	v, decErr := codec.DecodeEuler(data)
	if decErr != nil {
		return codec.Euler{}, decodeErr("euler", decErr)
	}
	return v, nil
}

// ReadHeading samples the compass-heading characteristic, in degrees.
func (s *Session) ReadHeading(ctx context.Context) (float64, error) {
	data, err := s.readMotionSensor(ctx, "heading")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.Heading(data)
	if decErr != nil {
		return 0, decodeErr("heading", decErr)
	}
	return v, nil
}

// ReadOrientation samples the coarse device-orientation characteristic.
func (s *Session) ReadOrientation(ctx context.Context) (codec.Orientation, error) {
	data, err := s.readMotionSensor(ctx, "orientation")
	if err != nil {
		return 0, err
	}
	v, decErr := codec.DecodeOrientation(data)
	if decErr != nil {
		return 0, decodeErr("orientation", decErr)
	}
	return v, nil
}

// ReadRawMotion samples the raw accelerometer/gyroscope/magnetometer characteristic.
func (s *Session) ReadRawMotion(ctx context.Context) (codec.RawMotion, error) {
	data, err := s.readMotionSensor(ctx, "raw_motion")
	if err != nil {
		return codec.RawMotion{}, err
	}
	v, decErr := codec.DecodeRawMotion(data)
	if decErr != nil {
		return codec.RawMotion{}, decodeErr("raw_motion", decErr)
	}
	return v, nil
}

// ReadStepCount samples the pedometer characteristic.
func (s *Session) ReadStepCount(ctx context.Context) (codec.StepCount, error) {
	data, err := s.readMotionSensor(ctx, "step_counter")
	if err != nil {
		return codec.StepCount{}, err
	}
	v, decErr := codec.DecodeStepCount(data)
	if decErr != nil {
		return codec.StepCount{}, decodeErr("step_counter", decErr)
	}
	return v, nil
}

// readMotionSensor auto-configures motion fusion on first use before
// sampling a motion-service characteristic.
func (s *Session) readMotionSensor(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureMotionConfigured(ctx); err != nil {
		return nil, err
	}
	return s.readSensor(ctx, key)
}

// ReadTapEvent waits up to timeout for the next tap notification. The
// subscription is dropped at timeout (no held-open retry) so cleanup
// stays symmetric with every other composite operation.
func (s *Session) ReadTapEvent(ctx context.Context, timeout time.Duration) (codec.TapEvent, error) {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	link, lossCh, err := s.requireConnected()
	if err != nil {
		return codec.TapEvent{}, err
	}

	s.waitersMu.Lock()
	if _, exists := s.waiters["tap"]; exists {
		s.waitersMu.Unlock()
		return codec.TapEvent{}, newErr(KindBusyError, "tap read already in flight")
	}
	w := &waiter{payload: make(chan []byte, 1)}
	s.waiters["tap"] = w
	s.waitersMu.Unlock()
	cleanup := func() {
		s.waitersMu.Lock()
		delete(s.waiters, "tap")
		s.waitersMu.Unlock()
	}

	tapChar, err := registry.Lookup("tap")
	if err != nil {
		cleanup()
		return codec.TapEvent{}, newErr(KindInvalidArgument, "%v", err)
	}
	gattChar, err := link.Characteristic(tapChar.Service, tapChar.UUID)
	if err != nil {
		cleanup()
		return codec.TapEvent{}, newErr(KindNotFound, "%v", err)
	}
	sub, err := gattChar.Subscribe(func(data []byte) {
		select {
		case w.payload <- data:
		default:
		}
	})
	if err != nil {
		cleanup()
		return codec.TapEvent{}, newErr(KindNotPermitted, "subscribe tap: %v", err)
	}

	payload, waitErr := s.waitForPayload(ctx, w, lossCh, timeout)
	_ = sub.Unsubscribe()
	cleanup()

	if waitErr != nil {
		return codec.TapEvent{}, waitErr
	}
	ev, decErr := codec.DecodeTapEvent(payload)
	if decErr != nil {
		return codec.TapEvent{}, decodeErr("tap", decErr)
	}
	return ev, nil
}
