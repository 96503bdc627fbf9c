// Package clipboard provides system clipboard access.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fwojciec/questlog"
)

// Ensure System implements the Clipboard interface.
var _ questlog.Clipboard = (*System)(nil)

// ErrUnsupported is returned when no clipboard utility is available
// (for example xclip/xsel/wl-copy on Linux).
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// System implements Clipboard using the platform clipboard.
type System struct {
	writeAll    func(string) error
	unsupported bool
}

// NewSystem returns a clipboard backed by the operating system.
func NewSystem() *System {
	return &System{
		writeAll:    clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
	}
}

// Copy writes content to the system clipboard.
func (s *System) Copy(content string) error {
	if s.unsupported {
		return ErrUnsupported
	}
	if err := s.writeAll(content); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
