package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize is the maximum size for a single line-delimited message (1MB).
const MaxMessageSize = 1024 * 1024

// readMessage reads one JSON-RPC message per line. A line that is not valid
// JSON yields a *parseError so the loop can answer and continue.
func (s *Server) readMessage() (*Message, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, 64*1024), MaxMessageSize)
	}

	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("error reading from stdin: %w", err)
			}
			return nil, io.EOF
		}

		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.logger.Debug("received message", "raw", string(line))

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, &parseError{err: err}
		}
		return &msg, nil
	}
}

type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("error parsing JSON-RPC message: %v", e.err)
}

func (e *parseError) Unwrap() error { return e.err }

// writeMessage writes a JSON-RPC message followed by a newline.
func (s *Server) writeMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling JSON-RPC message: %w", err)
	}

	s.logger.Debug("sending message", "raw", string(data))

	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("error writing to stdout: %w", err)
	}
	return nil
}
