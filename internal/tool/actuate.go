package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/codec"
)

func registerActuationTools(s *server.MCPServer, sess *session.Session) {
	s.AddTool(setLEDColorTool(), setLEDColorHandler(sess))
	s.AddTool(setLEDBreatheTool(), setLEDBreatheHandler(sess))
	s.AddTool(mcp.NewTool("turn_off_led", mcp.WithDescription("Turn the LED off.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := sess.SetLEDOff(); err != nil {
				return errorResult(err), nil
			}
			return jsonResult(ledOffResult()), nil
		})
	s.AddTool(playSoundTool(), playSoundHandler(sess))
	s.AddTool(mcp.NewTool("beep", mcp.WithDescription("Play the short beep preset sound. Shorthand for play_sound(sound_id=1).")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := sess.PlaySound(codec.BeepSoundID); err != nil {
				return errorResult(err), nil
			}
			return jsonResult(soundTriggeredResult(codec.BeepSoundID)), nil
		})
}

func setLEDColorTool() mcp.Tool {
	return mcp.NewTool("set_led_color",
		mcp.WithDescription("Set the LED to a constant color: either a known color name, or explicit red/green/blue channels (each 0..255)."),
		mcp.WithString("color", mcp.Description("A known color name, e.g. \"red\", \"warm_white\". Mutually exclusive with red/green/blue.")),
		mcp.WithNumber("red", mcp.Description("Red channel, 0..255.")),
		mcp.WithNumber("green", mcp.Description("Green channel, 0..255.")),
		mcp.WithNumber("blue", mcp.Description("Blue channel, 0..255.")),
		mcp.WithNumber("intensity", mcp.Description("Scales the RGB channels, 0..100. Default 100.")),
	)
}

func setLEDColorHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		intensity, errResult := intArg(request, "intensity", 100, 0, 100)
		if errResult != nil {
			return errResult, nil
		}

		var r, g, b int
		if name := request.GetString("color", ""); name != "" {
			for _, field := range []string{"red", "green", "blue"} {
				if request.GetInt(field, -1) != -1 {
					return invalidArg(field, "must not be combined with color"), nil
				}
			}
			rgb, ok := codec.NamedColors[name]
			if !ok {
				return invalidArg("color", "unknown color name"), nil
			}
			r, g, b = rgb[0], rgb[1], rgb[2]
		} else {
			r = request.GetInt("red", -1)
			g = request.GetInt("green", -1)
			b = request.GetInt("blue", -1)
			for _, field := range []struct {
				name string
				v    int
			}{{"red", r}, {"green", g}, {"blue", b}} {
				if field.v != -1 && (field.v < 0 || field.v > 255) {
					return invalidArg(field.name, "must be 0..255"), nil
				}
			}
			if r < 0 || g < 0 || b < 0 {
				return invalidArg("color", "must provide either color, or all of red, green, blue"), nil
			}
		}

		r, g, b = r*intensity/100, g*intensity/100, b*intensity/100
		if err := sess.SetLEDConstant(r, g, b); err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			LEDMode string `json:"led_mode"`
			R, G, B int
		}{"constant", r, g, b}), nil
	}
}

func setLEDBreatheTool() mcp.Tool {
	return mcp.NewTool("set_led_breathe",
		mcp.WithDescription("Set the LED to breathing mode using one of the 7 named breathe colors."),
		mcp.WithString("color",
			mcp.Required(),
			mcp.Description("One of: red, green, yellow, blue, cyan, magenta, white."),
		),
		mcp.WithNumber("intensity", mcp.Description("0..100. Default 20.")),
		mcp.WithNumber("delay_ms", mcp.Description("Breathing cycle delay, 50..10000 milliseconds. Default 1000. Range-checked only: the 4-byte LED payload has no delay field, so the value is not sent to the device.")),
	)
}

func setLEDBreatheHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for _, field := range []string{"red", "green", "blue"} {
			if request.GetInt(field, -1) != -1 {
				return invalidArg(field, "breathe mode accepts a named color only, not red/green/blue"), nil
			}
		}

		name := request.GetString("color", "")
		colorCode, ok := codec.BreatheColorCodes[name]
		if !ok {
			return invalidArg("color", "must be one of the 7 breathe-mode color names"), nil
		}
		intensity, errResult := intArg(request, "intensity", 20, 0, 100)
		if errResult != nil {
			return errResult, nil
		}
		delayMs, errResult := intArg(request, "delay_ms", 1000, 50, 10000)
		if errResult != nil {
			return errResult, nil
		}
		if err := sess.SetLEDBreathe(colorCode, intensity, delayMs); err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			LEDMode string `json:"led_mode"`
			Color   string `json:"color"`
		}{"breathe", name}), nil
	}
}

func playSoundTool() mcp.Tool {
	return mcp.NewTool("play_sound",
		mcp.WithDescription("Trigger one of the eight preset sound effects."),
		mcp.WithNumber("sound_id", mcp.Required(), mcp.Description("1..8.")),
	)
}

func playSoundHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		soundID, errResult := intArg(request, "sound_id", -1, 1, 8)
		if errResult != nil {
			return errResult, nil
		}
		if err := sess.PlaySound(soundID); err != nil {
			return errorResult(err), nil
		}
		return jsonResult(soundTriggeredResult(soundID)), nil
	}
}

func ledOffResult() any {
	return struct {
		LEDMode string `json:"led_mode"`
	}{"off"}
}

func soundTriggeredResult(soundID int) any {
	return struct {
		SoundID int `json:"sound_id"`
	}{soundID}
}
