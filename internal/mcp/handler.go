package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/query"
)

// handleMessage returns the response for msg, or nil for notifications.
func (s *Server) handleMessage(ctx context.Context, msg *Message) *Message {
	if msg.IsNotification() {
		s.logger.Debug("handling notification", "method", msg.Method)
		return nil
	}
	if !msg.IsRequest() {
		return newError(msg.ID, InvalidRequest, "Invalid message: not a request or notification")
	}

	s.logger.Debug("handling request", "method", msg.Method, "id", msg.ID)

	switch msg.Method {
	case "initialize":
		return newResult(msg.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: map[string]any{
				"resources": map[string]any{},
				"tools":     map[string]any{},
			},
			ServerInfo: serverInfo{Name: serverName, Version: s.version},
		})
	case "ping":
		return newResult(msg.ID, map[string]any{})
	case "resources/list":
		return newResult(msg.ID, map[string]any{"resources": s.surface.Resources()})
	case "resources/read":
		return s.handleReadResource(ctx, msg)
	case "tools/list":
		return newResult(msg.ID, map[string]any{"tools": s.surface.Tools()})
	case "tools/call":
		return s.handleCallTool(ctx, msg)
	default:
		return newError(msg.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
	}
}

func (s *Server) handleReadResource(ctx context.Context, msg *Message) *Message {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.URI == "" {
		return newError(msg.ID, InvalidParams, "resources/read requires a uri")
	}

	text, err := s.surface.ReadResource(ctx, params.URI)
	if err != nil {
		return s.toolError(msg.ID, "Error reading resource", err)
	}

	return newResult(msg.ID, map[string]any{
		"contents": []resourceContents{{URI: params.URI, MimeType: "application/json", Text: text}},
	})
}

func (s *Server) handleCallTool(ctx context.Context, msg *Message) *Message {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.Name == "" {
		return newError(msg.ID, InvalidParams, "tools/call requires a name")
	}

	text, err := s.surface.CallTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.toolError(msg.ID, "Error executing tool", err)
	}

	return newResult(msg.ID, map[string]any{
		"content": []textContent{{Type: "text", Text: text}},
	})
}

// toolError maps caller mistakes to InvalidRequest and unknown tools to
// MethodNotFound; everything else is an internal error.
func (s *Server) toolError(id any, prefix string, err error) *Message {
	var (
		notFound   *query.SessionNotFoundError
		validation *domain.ValidationError
	)

	switch {
	case errors.Is(err, query.ErrUnknownTool):
		return newError(id, MethodNotFound, err.Error())
	case errors.Is(err, query.ErrUnknownResource), errors.As(err, &notFound), errors.As(err, &validation):
		return newError(id, InvalidRequest, err.Error())
	default:
		s.logger.Error(prefix, "error", err)
		return newError(id, InternalError, fmt.Sprintf("%s: %v", prefix, err))
	}
}
