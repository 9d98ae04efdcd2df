package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
)

func registerMotionTools(s *server.MCPServer, sess *session.Session) {
	s.AddTool(mcp.NewTool("read_quaternion", mcp.WithDescription("Read the fused-orientation quaternion. Motion fusion is auto-configured on first use.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadQuaternion(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(v), nil
		})

	s.AddTool(mcp.NewTool("read_euler_angles", mcp.WithDescription("Read the fused-orientation Euler angles (roll, pitch, yaw), in degrees.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadEulerAngles(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(v), nil
		})

	s.AddTool(mcp.NewTool("read_heading", mcp.WithDescription("Read the compass heading, in degrees, normalized to [0, 360).")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadHeading(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				HeadingDegrees float64 `json:"heading_degrees"`
			}{v}), nil
		})

	s.AddTool(mcp.NewTool("read_orientation", mcp.WithDescription("Read the coarse device orientation (portrait, landscape, reverse_portrait, reverse_landscape).")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadOrientation(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				Orientation string `json:"orientation"`
			}{v.String()}), nil
		})

	s.AddTool(mcp.NewTool("read_raw_motion", mcp.WithDescription("Read the raw accelerometer, gyroscope, and magnetometer vectors.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadRawMotion(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(v), nil
		})

	s.AddTool(mcp.NewTool("read_step_count", mcp.WithDescription("Read the pedometer step count and elapsed time since the counter was last reset.")),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			v, err := sess.ReadStepCount(ctx)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				Steps     uint32 `json:"steps"`
				ElapsedMS uint32 `json:"elapsed_ms"`
			}{v.Steps, v.ElapsedMS}), nil
		})

	s.AddTool(
		mcp.NewTool("read_tap_event",
			mcp.WithDescription("Wait for the next tap/double-tap event, up to timeout_seconds. This is the only tool that waits the full timeout for the next event."),
			mcp.WithNumber("timeout_seconds", mcp.Description("How long to wait, in seconds. Default 10, min 1, max 60.")),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			timeout, errResult := secondsArg(request, "timeout_seconds", 10, 1, 60)
			if errResult != nil {
				return errResult, nil
			}
			v, err := sess.ReadTapEvent(ctx, timeout)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(struct {
				Direction int `json:"direction"`
				Count     int `json:"count"`
			}{v.Direction, v.Count}), nil
		})
}
