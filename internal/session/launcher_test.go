package session

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testLauncher builds a Launcher where nothing exists and nothing runs;
// tests override what they need.
func testLauncher() *Launcher {
	return &Launcher{
		Running:      func() bool { return false },
		Start:        func(string) error { return nil },
		Exists:       func(string) bool { return false },
		LookPath:     func(string) (string, error) { return "", errors.New("not found") },
		Sleep:        func(time.Duration) {},
		PollInterval: 500 * time.Millisecond,
		Log:          discardLogger(),
	}
}

func TestFindExecutableOverride(t *testing.T) {
	l := testLauncher()
	l.Override = `D:\sap\saplogon.exe`
	l.Exists = func(path string) bool { return path == l.Override }

	path, err := l.FindExecutable()
	if err != nil {
		t.Fatalf("FindExecutable() error = %v", err)
	}
	if path != l.Override {
		t.Errorf("path = %q, want override", path)
	}
}

func TestFindExecutableEnvOverride(t *testing.T) {
	t.Setenv(EnvLauncherPath, `E:\frontend\saplogon.exe`)

	l := testLauncher()
	l.Exists = func(path string) bool { return path == `E:\frontend\saplogon.exe` }

	path, err := l.FindExecutable()
	if err != nil {
		t.Fatalf("FindExecutable() error = %v", err)
	}
	if path != `E:\frontend\saplogon.exe` {
		t.Errorf("path = %q, want env override", path)
	}
}

func TestFindExecutableWellKnown(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	l := testLauncher()
	l.Exists = func(path string) bool { return path == wellKnownPaths[1] }

	path, err := l.FindExecutable()
	if err != nil {
		t.Fatalf("FindExecutable() error = %v", err)
	}
	if path != wellKnownPaths[1] {
		t.Errorf("path = %q, want %q", path, wellKnownPaths[1])
	}
}

func TestFindExecutableSearchPath(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	l := testLauncher()
	l.LookPath = func(name string) (string, error) {
		if name != "saplogon.exe" {
			t.Errorf("LookPath(%q), want saplogon.exe", name)
		}
		return `C:\bin\saplogon.exe`, nil
	}

	path, err := l.FindExecutable()
	if err != nil {
		t.Fatalf("FindExecutable() error = %v", err)
	}
	if path != `C:\bin\saplogon.exe` {
		t.Errorf("path = %q", path)
	}
}

func TestFindExecutableNotFound(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	_, err := testLauncher().FindExecutable()
	if !errors.Is(err, ErrLauncherNotFound) {
		t.Errorf("error = %v, want ErrLauncherNotFound", err)
	}
}

func TestLaunchAlreadyRunning(t *testing.T) {
	t.Parallel()

	started := false
	l := testLauncher()
	l.Running = func() bool { return true }
	l.Start = func(string) error { started = true; return nil }

	if err := l.Launch(time.Second); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if started {
		t.Error("Launch() started the executable with the engine already up")
	}
}

func TestLaunchWaitsForReadiness(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	polls := 0
	l := testLauncher()
	l.Exists = func(path string) bool { return path == wellKnownPaths[0] }
	l.Running = func() bool {
		polls++
		return polls > 3
	}

	if err := l.Launch(5 * time.Second); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
}

func TestLaunchTimeout(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	l := testLauncher()
	l.Exists = func(path string) bool { return path == wellKnownPaths[0] }

	err := l.Launch(2 * time.Second)
	if !errors.Is(err, ErrLaunchTimeout) {
		t.Errorf("error = %v, want ErrLaunchTimeout", err)
	}
}

func TestLaunchStartFailure(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	l := testLauncher()
	l.Exists = func(path string) bool { return path == wellKnownPaths[0] }
	l.Start = func(string) error { return errors.New("access denied") }

	if err := l.Launch(time.Second); err == nil {
		t.Fatal("Launch() succeeded despite start failure")
	}
}
