package util

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// SessionsFileName is the local store's file name in the home directory.
const SessionsFileName = ".baby-sensory-sessions.json"

// DefaultSessionsFile returns the default local store path in the user's home.
func DefaultSessionsFile() string {
	return filepath.Join(xdg.Home, SessionsFileName)
}
