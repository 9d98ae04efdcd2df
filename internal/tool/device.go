package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
)

func registerDeviceTools(s *server.MCPServer, sess *session.Session) {
	s.AddTool(scanDevicesTool(), scanDevicesHandler(sess))
	s.AddTool(connectDeviceTool(), connectDeviceHandler(sess))
	s.AddTool(disconnectDeviceTool(), disconnectDeviceHandler(sess))
	s.AddTool(getDeviceStatusTool(), getDeviceStatusHandler(sess))
}

func scanDevicesTool() mcp.Tool {
	return mcp.NewTool("scan_devices",
		mcp.WithDescription("Scan for nearby Thingy:52 Bluetooth peripherals."),
		mcp.WithNumber("timeout_seconds",
			mcp.Description("How long to scan, in seconds. Default 10, min 1, max 60."),
		),
	)
}

func scanDevicesHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		timeout, errResult := secondsArg(request, "timeout_seconds", 10, 1, 60)
		if errResult != nil {
			return errResult, nil
		}
		peripherals, err := sess.Scan(ctx, timeout)
		if err != nil {
			return errorResult(err), nil
		}
		type result struct {
			Address string `json:"address"`
			Name    string `json:"name,omitempty"`
			RSSI    int    `json:"rssi"`
		}
		out := make([]result, len(peripherals))
		for i, p := range peripherals {
			out[i] = result{Address: p.Address, Name: p.Name, RSSI: p.RSSI}
		}
		return jsonResult(out), nil
	}
}

func connectDeviceTool() mcp.Tool {
	return mcp.NewTool("connect_device",
		mcp.WithDescription("Connect to a Thingy:52 peripheral by address. The Session must be Disconnected."),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("The peripheral's Bluetooth address, as returned by scan_devices."),
		),
		mcp.WithNumber("timeout_seconds",
			mcp.Description("Connect timeout, in seconds. Default 30."),
		),
	)
}

func connectDeviceHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		address := request.GetString("address", "")
		if address == "" {
			return invalidArg("address", "must be non-empty"), nil
		}
		timeout, errResult := secondsArg(request, "timeout_seconds", 30, 1, 300)
		if errResult != nil {
			return errResult, nil
		}
		name, err := sess.Connect(ctx, address, timeout)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			Connected bool   `json:"connected"`
			Address   string `json:"address"`
			Name      string `json:"name,omitempty"`
		}{Connected: true, Address: address, Name: name}), nil
	}
}

func disconnectDeviceTool() mcp.Tool {
	return mcp.NewTool("disconnect_device",
		mcp.WithDescription("Disconnect from the active Thingy:52 peripheral. Idempotent."),
	)
}

func disconnectDeviceHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.Disconnect(ctx); err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			Connected bool `json:"connected"`
		}{Connected: false}), nil
	}
}

func getDeviceStatusTool() mcp.Tool {
	return mcp.NewTool("get_device_status",
		mcp.WithDescription("Report whether the Session is connected and, if so, the peripheral's address, name, and battery level."),
	)
}

func getDeviceStatusHandler(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		connected, address, name := sess.Status()
		out := struct {
			Connected      bool   `json:"connected"`
			Address        string `json:"address,omitempty"`
			Name           string `json:"name,omitempty"`
			BatteryPercent *int   `json:"battery_percent,omitempty"`
		}{Connected: connected, Address: address, Name: name}

		if connected {
			if level, err := sess.ReadBattery(ctx); err == nil {
				out.BatteryPercent = &level
			}
		}
		return jsonResult(out), nil
	}
}
