package mcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/emiliopalmerini/sensorystats/internal/query"
)

const (
	serverName      = "baby-sensory-analytics"
	protocolVersion = "2024-11-05"
)

// Server answers JSON-RPC requests read line by line from stdin. Logs must
// go elsewhere: stdout carries only protocol messages.
type Server struct {
	surface *query.Surface
	version string
	logger  *slog.Logger

	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
}

func NewServer(surface *query.Surface, version string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		surface: surface,
		version: version,
		logger:  logger,
		stdin:   stdin,
		stdout:  stdout,
	}
}

// Serve processes messages until stdin reaches EOF or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("MCP server running on stdio", "version", s.version)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		msg, err := s.readMessage()
		if errors.Is(err, io.EOF) {
			s.logger.Info("MCP server shutting down (EOF)")
			return nil
		}
		var perr *parseError
		if errors.As(err, &perr) {
			s.logger.Warn("discarding malformed message", "error", err)
			if werr := s.writeMessage(newError(nil, ParseError, perr.Error())); werr != nil {
				return werr
			}
			continue
		}
		if err != nil {
			return err
		}

		response := s.handleMessage(ctx, msg)
		if response == nil {
			continue
		}
		if err := s.writeMessage(response); err != nil {
			s.logger.Error("error writing response", "error", err)
			return err
		}
	}
}
