// Package session obtains a usable scripting session for the current tool
// invocation: the first session of the first open connection, optionally
// creating one via the logon screen, optionally starting SAP Logon first.
// Nothing is cached between invocations; the session is re-fetched every
// call and owned entirely by the engine.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saptools/sapmcp/internal/config"
	"github.com/saptools/sapmcp/internal/engine"
)

// Logon screen field ids on the standard SAP login dynpro.
const (
	fieldClient   = "wnd[0]/usr/txtRSYST-MANDT"
	fieldUser     = "wnd[0]/usr/txtRSYST-BNAME"
	fieldPassword = "wnd[0]/usr/pwdRSYST-BCODE"
	fieldLanguage = "wnd[0]/usr/txtRSYST-LANGU"
)

// vkeyEnter triggers the logon roundtrip.
const vkeyEnter = 0

// Accessor resolves sessions against one engine instance.
type Accessor struct {
	eng      engine.Engine
	launcher *Launcher
	log      *slog.Logger

	// sleep and pollInterval drive the wait for a session to appear on a
	// freshly opened connection.
	sleep        func(d time.Duration)
	pollInterval time.Duration
}

// New builds an Accessor. The launcher may be nil when login is never used.
func New(eng engine.Engine, launcher *Launcher, log *slog.Logger) *Accessor {
	return &Accessor{
		eng:          eng,
		launcher:     launcher,
		log:          log,
		sleep:        time.Sleep,
		pollInterval: 500 * time.Millisecond,
	}
}

// Current returns the first session of the first open connection, or
// ErrNoSession. Deterministic: when multiple connections or sessions
// exist, the first is always selected.
func (a *Accessor) Current() (engine.Session, error) {
	if !a.eng.Running() {
		return nil, fmt.Errorf("%w: scripting engine not running", ErrNoSession)
	}
	conns, err := a.eng.Connections()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if len(conns) == 0 {
		return nil, fmt.Errorf("%w: no open connections", ErrNoSession)
	}
	sessions, err := conns[0].Sessions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: connection has no sessions", ErrNoSession)
	}
	return sessions[0], nil
}

// OpenLogonPad starts the SAP Logon pad without logging in, waiting up
// to wait for the scripting engine to come up. Idempotent when the
// engine is already running.
func (a *Accessor) OpenLogonPad(wait time.Duration) error {
	if a.launcher == nil {
		return fmt.Errorf("%w: no launcher configured", ErrLauncherNotFound)
	}
	return a.launcher.Launch(wait)
}

// Login opens a new connection and drives the logon screen with the
// resolved credentials. launchWait bounds both the optional SAP Logon
// startup and the wait for the new connection's session to appear.
func (a *Accessor) Login(creds config.Credentials, launchWait time.Duration) (engine.Session, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if !a.eng.Running() {
		if a.launcher == nil {
			return nil, fmt.Errorf("%w: scripting engine not running", ErrLogin)
		}
		if err := a.launcher.Launch(launchWait); err != nil {
			return nil, err
		}
	}

	if creds.UseSSO {
		a.log.Info("logging in with sso", "system", creds.System.Value)
	} else {
		a.log.Info("logging in with credentials",
			"system", creds.System.Value, "user", creds.User.Value)
	}

	conn, err := a.eng.OpenConnection(creds.System.Value, true)
	if err != nil {
		return nil, fmt.Errorf("%w: opening connection to %s: %v", ErrLogin, creds.System.Value, err)
	}

	sess, err := a.waitForSession(conn, launchWait)
	if err != nil {
		return nil, err
	}

	if err := a.fillLogonScreen(sess, creds); err != nil {
		return nil, err
	}
	if err := sess.SendVKey(vkeyEnter); err != nil {
		return nil, fmt.Errorf("%w: submitting logon screen: %v", ErrLogin, err)
	}

	// The password field surviving the roundtrip means the logon screen is
	// still up: wrong credentials or a system message blocking login.
	if _, err := sess.FindByID(fieldPassword); err == nil {
		return nil, fmt.Errorf("%w: still on logon screen for system %s, check credentials", ErrLogin, creds.System.Value)
	}

	return sess, nil
}

func (a *Accessor) waitForSession(conn engine.Connection, wait time.Duration) (engine.Session, error) {
	attempts := int(wait / a.pollInterval)
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		sessions, err := conn.Sessions()
		if err == nil && len(sessions) > 0 {
			return sessions[0], nil
		}
		a.sleep(a.pollInterval)
	}
	return nil, fmt.Errorf("%w: connection established but no session appeared", ErrLogin)
}

// fillLogonScreen populates the standard logon dynpro. SSO only sets the
// client (when given); the frontend handles the rest on Enter.
func (a *Accessor) fillLogonScreen(sess engine.Session, creds config.Credentials) error {
	set := func(id, value string) error {
		el, err := sess.FindByID(id)
		if err != nil {
			return fmt.Errorf("%w: logon field %s: %v", ErrLogin, id, err)
		}
		text, ok := el.(engine.TextElement)
		if !ok {
			return fmt.Errorf("%w: logon field %s is not a text field", ErrLogin, id)
		}
		if err := text.SetText(value); err != nil {
			return fmt.Errorf("%w: setting logon field %s: %v", ErrLogin, id, err)
		}
		return nil
	}

	if creds.UseSSO {
		if creds.Client.Set() {
			return set(fieldClient, creds.Client.Value)
		}
		return nil
	}

	for _, f := range []struct {
		id    string
		value string
	}{
		{fieldClient, creds.Client.Value},
		{fieldUser, creds.User.Value},
		{fieldPassword, creds.Password.Value},
		{fieldLanguage, creds.Language.Value},
	} {
		if err := set(f.id, f.value); err != nil {
			return err
		}
	}
	return nil
}
