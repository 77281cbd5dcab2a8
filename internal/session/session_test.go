package session

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/saptools/sapmcp/internal/config"
	"github.com/saptools/sapmcp/internal/engine"
	"github.com/saptools/sapmcp/internal/engine/enginetest"
)

func testAccessor(eng engine.Engine, l *Launcher) *Accessor {
	a := New(eng, l, discardLogger())
	a.sleep = func(time.Duration) {}
	return a
}

func testCreds() config.Credentials {
	return config.Credentials{
		System:   config.Field{Value: "PRD", Source: config.SourceArgument},
		Client:   config.Field{Value: "100", Source: config.SourceArgument},
		User:     config.Field{Value: "jdoe", Source: config.SourceArgument},
		Password: config.Field{Value: "hunter2", Source: config.SourceArgument},
		Language: config.Field{Value: "EN", Source: config.SourceDefault},
	}
}

func TestCurrentEngineDown(t *testing.T) {
	t.Parallel()

	a := testAccessor(&enginetest.FakeEngine{Up: false}, nil)
	if _, err := a.Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}

func TestCurrentNoConnections(t *testing.T) {
	t.Parallel()

	a := testAccessor(&enginetest.FakeEngine{Up: true}, nil)
	if _, err := a.Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}

func TestCurrentNoSessions(t *testing.T) {
	t.Parallel()

	eng := &enginetest.FakeEngine{Up: true, Conns: []*enginetest.FakeConnection{{}}}
	a := testAccessor(eng, nil)
	if _, err := a.Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}

func TestCurrentPicksFirst(t *testing.T) {
	t.Parallel()

	first := &enginetest.FakeSession{SessionInfo: engine.SessionInfo{ID: "ses[0]"}}
	second := &enginetest.FakeSession{SessionInfo: engine.SessionInfo{ID: "ses[1]"}}
	eng := &enginetest.FakeEngine{Up: true, Conns: []*enginetest.FakeConnection{
		{Sess: []*enginetest.FakeSession{first, second}},
		{Sess: []*enginetest.FakeSession{{}}},
	}}

	sess, err := testAccessor(eng, nil).Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	info, err := sess.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "ses[0]" {
		t.Errorf("session = %s, want ses[0]", info.ID)
	}
}

func TestOpenLogonPadAlreadyRunning(t *testing.T) {
	t.Parallel()

	started := false
	l := testLauncher()
	l.Running = func() bool { return true }
	l.Start = func(string) error { started = true; return nil }

	a := testAccessor(&enginetest.FakeEngine{Up: true}, l)
	if err := a.OpenLogonPad(time.Second); err != nil {
		t.Fatalf("OpenLogonPad() error = %v", err)
	}
	if started {
		t.Error("OpenLogonPad() started the executable with the engine already up")
	}
}

func TestOpenLogonPadStartsAndWaits(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	polls := 0
	l := testLauncher()
	l.Exists = func(path string) bool { return path == wellKnownPaths[0] }
	l.Running = func() bool {
		polls++
		return polls > 2
	}

	a := testAccessor(&enginetest.FakeEngine{Up: false}, l)
	if err := a.OpenLogonPad(5 * time.Second); err != nil {
		t.Fatalf("OpenLogonPad() error = %v", err)
	}
}

func TestOpenLogonPadWithoutLauncher(t *testing.T) {
	t.Parallel()

	a := testAccessor(&enginetest.FakeEngine{Up: false}, nil)
	if err := a.OpenLogonPad(time.Second); !errors.Is(err, ErrLauncherNotFound) {
		t.Errorf("error = %v, want ErrLauncherNotFound", err)
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	t.Parallel()

	creds := testCreds()
	creds.Password = config.Field{Source: config.SourceUnset}

	a := testAccessor(&enginetest.FakeEngine{Up: true}, nil)
	_, err := a.Login(creds, time.Second)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
}

// loginFixture wires an engine whose OpenConnection yields the given
// logon-screen session.
func loginFixture(t *testing.T, sess *enginetest.FakeSession, wantSystem string) *enginetest.FakeEngine {
	t.Helper()
	eng := &enginetest.FakeEngine{Up: true}
	eng.OpenConnectionFunc = func(description string, sync bool) (engine.Connection, error) {
		if description != wantSystem {
			t.Errorf("OpenConnection(%q), want %q", description, wantSystem)
		}
		if !sync {
			t.Error("OpenConnection sync = false, want true")
		}
		return &enginetest.FakeConnection{Sess: []*enginetest.FakeSession{sess}}, nil
	}
	return eng
}

func TestLoginFillsLogonScreen(t *testing.T) {
	t.Parallel()

	sess := enginetest.LoginScreenSession()
	fields := enginetest.AddLoginFields(sess)
	sess.VKeyFunc = func(int) error {
		// The roundtrip replaces the logon screen with the entry menu.
		sess.Wnds[0].Kids = nil
		return nil
	}

	a := testAccessor(loginFixture(t, sess, "PRD"), nil)
	got, err := a.Login(testCreds(), time.Second)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got != sess {
		t.Error("Login() returned a different session")
	}

	want := map[string]string{
		"wnd[0]/usr/txtRSYST-MANDT": "100",
		"wnd[0]/usr/txtRSYST-BNAME": "jdoe",
		"wnd[0]/usr/pwdRSYST-BCODE": "hunter2",
		"wnd[0]/usr/txtRSYST-LANGU": "EN",
	}
	for id, value := range want {
		if fields[id].Value != value {
			t.Errorf("field %s = %q, want %q", id, fields[id].Value, value)
		}
	}
	if !slices.Contains(sess.VKeys, 0) {
		t.Error("Enter was never sent")
	}
}

func TestLoginSSOOnlySetsClient(t *testing.T) {
	t.Parallel()

	sess := enginetest.LoginScreenSession()
	fields := enginetest.AddLoginFields(sess)
	sess.VKeyFunc = func(int) error {
		sess.Wnds[0].Kids = nil
		return nil
	}

	creds := testCreds()
	creds.UseSSO = true
	creds.User = config.Field{Source: config.SourceUnset}
	creds.Password = config.Field{Source: config.SourceUnset}

	a := testAccessor(loginFixture(t, sess, "PRD"), nil)
	if _, err := a.Login(creds, time.Second); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if fields["wnd[0]/usr/txtRSYST-MANDT"].Value != "100" {
		t.Errorf("client = %q, want 100", fields["wnd[0]/usr/txtRSYST-MANDT"].Value)
	}
	if fields["wnd[0]/usr/pwdRSYST-BCODE"].Value != "" {
		t.Error("password field was written during sso login")
	}
	if fields["wnd[0]/usr/txtRSYST-BNAME"].Value != "" {
		t.Error("user field was written during sso login")
	}
}

func TestLoginStillOnLogonScreen(t *testing.T) {
	t.Parallel()

	sess := enginetest.LoginScreenSession()
	enginetest.AddLoginFields(sess)
	// No VKeyFunc: the logon screen survives the roundtrip, as it would
	// with wrong credentials.

	a := testAccessor(loginFixture(t, sess, "PRD"), nil)
	_, err := a.Login(testCreds(), time.Second)
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("error = %v, want ErrLogin", err)
	}
}

func TestLoginEngineDownWithoutLauncher(t *testing.T) {
	t.Parallel()

	a := testAccessor(&enginetest.FakeEngine{Up: false}, nil)
	_, err := a.Login(testCreds(), time.Second)
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("error = %v, want ErrLogin", err)
	}
}

func TestLoginPropagatesLauncherFailure(t *testing.T) {
	t.Parallel()

	l := testLauncher()
	l.Override = `D:\nowhere\saplogon.exe`

	a := testAccessor(&enginetest.FakeEngine{Up: false}, l)
	_, err := a.Login(testCreds(), time.Second)
	if !errors.Is(err, ErrLauncherNotFound) {
		t.Fatalf("error = %v, want ErrLauncherNotFound", err)
	}
}

func TestLoginNoSessionAppears(t *testing.T) {
	t.Parallel()

	eng := &enginetest.FakeEngine{Up: true}
	eng.OpenConnectionFunc = func(string, bool) (engine.Connection, error) {
		return &enginetest.FakeConnection{}, nil
	}

	a := testAccessor(eng, nil)
	_, err := a.Login(testCreds(), time.Second)
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("error = %v, want ErrLogin", err)
	}
}
