//go:build !windows

package engine

import "fmt"

// Connect is Windows-only; the SAPGUI automation object does not exist on
// other platforms.
func Connect() (Engine, error) {
	return nil, fmt.Errorf("%w: sap gui scripting is only available on windows", ErrNotRunning)
}
