package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/codec"
)

func registerEnvironmentTools(s *server.MCPServer, sess *session.Session) {
	s.AddTool(mcp.NewTool("read_temperature", mcp.WithDescription("Read the current temperature, in degrees Celsius.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadTemperature(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				TemperatureCelsius float64 `json:"temperature_celsius"`
				Unit               string  `json:"unit"`
			}{v, "°C"}), nil
		})

	s.AddTool(mcp.NewTool("read_humidity", mcp.WithDescription("Read the current relative humidity, as a percentage.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadHumidity(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				HumidityPercent int `json:"humidity_percent"`
			}{v}), nil
		})

	s.AddTool(mcp.NewTool("read_pressure", mcp.WithDescription("Read the current barometric pressure, in hPa.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadPressure(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				PressureHPa float64 `json:"pressure_hpa"`
			}{v}), nil
		})

	s.AddTool(mcp.NewTool("read_air_quality", mcp.WithDescription("Read the current CO2 and TVOC air quality readings.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadAirQuality(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				CO2PPM  int `json:"co2_ppm"`
				TVOCPPB int `json:"tvoc_ppb"`
			}{v.CO2PPM, v.TVOCPPB}), nil
		})

	s.AddTool(mcp.NewTool("read_color_sensor", mcp.WithDescription("Read the raw RGBC color sensor channels.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadColor(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(v), nil
		})

	s.AddTool(mcp.NewTool("read_light_intensity", mcp.WithDescription("Read an approximate ambient light intensity, in lux, derived from the color sensor's clear channel.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadLightIntensity(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				Lux float64 `json:"lux"`
			}{v}), nil
		})

	s.AddTool(mcp.NewTool("read_all_sensors", mcp.WithDescription("Read all six environmental sensors in one call. Individual failures surface as nulls with an accompanying errors list, rather than aborting the whole call.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			all := sess.ReadAllSensors(ctx)
			return jsonResult(allSensorsResult(all)), nil
		})
}

func allSensorsResult(a session.AllSensors) any {
	return struct {
		TemperatureCelsius *float64          `json:"temperature_celsius"`
		HumidityPercent    *int              `json:"humidity_percent"`
		PressureHPa        *float64          `json:"pressure_hpa"`
		AirQuality         *codec.AirQuality `json:"air_quality"`
		Color              *codec.Color      `json:"color"`
		LightLux           *float64          `json:"light_lux"`
		Errors             []string          `json:"errors,omitempty"`
	}{
		TemperatureCelsius: a.Temperature,
		HumidityPercent:    a.Humidity,
		PressureHPa:        a.Pressure,
		AirQuality:         a.AirQuality,
		Color:              a.Color,
		LightLux:           a.LightLux,
		Errors:             a.Errors,
	}
}
