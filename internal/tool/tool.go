// Package tool implements the Tool Surface: the thin MCP adapter layer
// over internal/session. Each tool validates its own arguments,
// dispatches to the Session, and translates the result (or a
// *session.Error) into the MCP result envelope. No tool reaches for
// ambient state; every handler closes over the one Session instance
// passed to Register.
package tool

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
)

// Register adds every Tool Surface entry to s, wired to sess.
func Register(s *server.MCPServer, sess *session.Session) {
	registerDeviceTools(s, sess)
	registerEnvironmentTools(s, sess)
	registerMotionTools(s, sess)
	registerActuationTools(s, sess)
}

// errorResult folds a Session error into the MCP error envelope:
// {error: {kind, message, details?}}.
func errorResult(err error) *mcp.CallToolResult {
	envelope := struct {
		Error struct {
			Kind    string            `json:"kind"`
			Message string            `json:"message"`
			Details map[string]string `json:"details,omitempty"`
		} `json:"error"`
	}{}

	if sessErr, ok := err.(*session.Error); ok {
		envelope.Error.Kind = string(sessErr.Kind)
		envelope.Error.Message = sessErr.Message
		envelope.Error.Details = sessErr.Details
	} else {
		envelope.Error.Kind = "Unknown"
		envelope.Error.Message = err.Error()
	}

	b, marshalErr := json.Marshal(envelope)
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(b))
}

// jsonResult marshals v as the tool's success payload.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tool: marshal result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

// invalidArg builds the InvalidArgument envelope for a Tool Surface
// argument-validation failure that never reaches the Session.
func invalidArg(field, reason string) *mcp.CallToolResult {
	return errorResult(&session.Error{
		Kind:    session.KindInvalidArgument,
		Message: fmt.Sprintf("%s: %s", field, reason),
		Details: map[string]string{"field": field, "reason": reason},
	})
}

// intArg reads an optional integer argument, applying default/min/max.
func intArg(request mcp.CallToolRequest, name string, def, min, max int) (int, *mcp.CallToolResult) {
	v := request.GetInt(name, def)
	if v < min || v > max {
		return 0, invalidArg(name, fmt.Sprintf("must be %d..%d", min, max))
	}
	return v, nil
}

func secondsArg(request mcp.CallToolRequest, name string, def, min, max int) (time.Duration, *mcp.CallToolResult) {
	v, errResult := intArg(request, name, def, min, max)
	if errResult != nil {
		return 0, errResult
	}
	return time.Duration(v) * time.Second, nil
}
