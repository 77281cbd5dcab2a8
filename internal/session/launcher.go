package session

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// wellKnownPaths are the standard SAP GUI frontend install locations.
var wellKnownPaths = []string{
	`C:\Program Files (x86)\SAP\FrontEnd\SAPGUI\saplogon.exe`,
	`C:\Program Files\SAP\FrontEnd\SAPGUI\saplogon.exe`,
}

// EnvLauncherPath overrides the executable search entirely.
const EnvLauncherPath = "SAP_LOGON_PATH"

// Launcher starts the SAP Logon pad when the scripting engine is not yet
// reachable. All process and filesystem touchpoints are injectable for
// tests.
type Launcher struct {
	// Override is an explicit executable path checked first. Falls back to
	// the SAP_LOGON_PATH environment variable when empty.
	Override string

	// Running probes whether the scripting engine is reachable.
	Running func() bool

	// Start launches the executable without waiting for it.
	Start func(path string) error

	// Exists reports whether a candidate path is present.
	Exists func(path string) bool

	// LookPath resolves the executable name on the process search path.
	LookPath func(name string) (string, error)

	// Sleep and PollInterval drive the readiness poll.
	Sleep        func(d time.Duration)
	PollInterval time.Duration

	Log *slog.Logger
}

// NewLauncher builds a Launcher with real process/filesystem wiring.
func NewLauncher(override string, running func() bool, log *slog.Logger) *Launcher {
	return &Launcher{
		Override: override,
		Running:  running,
		Start: func(path string) error {
			return exec.Command(path).Start()
		},
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		LookPath:     exec.LookPath,
		Sleep:        time.Sleep,
		PollInterval: 500 * time.Millisecond,
		Log:          log,
	}
}

// FindExecutable resolves the SAP Logon executable: explicit override,
// then the well-known install directories, then the search path.
func (l *Launcher) FindExecutable() (string, error) {
	override := l.Override
	if override == "" {
		override = os.Getenv(EnvLauncherPath)
	}
	if override != "" && l.Exists(override) {
		return override, nil
	}

	for _, path := range wellKnownPaths {
		if l.Exists(path) {
			return path, nil
		}
	}

	if path, err := l.LookPath("saplogon.exe"); err == nil && path != "" {
		return path, nil
	}

	return "", fmt.Errorf("%w: set %s or install the sap gui frontend", ErrLauncherNotFound, EnvLauncherPath)
}

// Launch starts SAP Logon if the engine is not already reachable and waits
// up to wait for it to become scriptable. Idempotent: an already-running
// engine is immediate success.
func (l *Launcher) Launch(wait time.Duration) error {
	if l.Running() {
		l.Log.Debug("sap logon already running")
		return nil
	}

	path, err := l.FindExecutable()
	if err != nil {
		return err
	}

	l.Log.Info("launching sap logon", "path", path)
	if err := l.Start(path); err != nil {
		return fmt.Errorf("starting %s: %w", path, err)
	}

	attempts := int(wait / l.PollInterval)
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if l.Running() {
			l.Log.Info("sap logon initialized", "path", path)
			return nil
		}
		l.Sleep(l.PollInterval)
	}

	return fmt.Errorf("%w: waited %s", ErrLaunchTimeout, wait)
}
