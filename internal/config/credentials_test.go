package config

import (
	"slices"
	"testing"
)

// clearCredentialEnv blanks every SAP_* variable so tests control the
// environment layer completely.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvSystem, EnvClient, EnvUser, EnvPassword, EnvLanguage, EnvUseSSO} {
		t.Setenv(name, "")
	}
}

func TestResolveCredentialsPrecedence(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvSystem, "PRD")
	t.Setenv(EnvUser, "envuser")

	creds := ResolveCredentials(CredentialArgs{User: "arguser", Client: "100"})

	if creds.System.Value != "PRD" || creds.System.Source != SourceEnvironment {
		t.Errorf("System = %+v, want PRD from environment", creds.System)
	}
	if creds.User.Value != "arguser" || creds.User.Source != SourceArgument {
		t.Errorf("User = %+v, want arguser from argument", creds.User)
	}
	if creds.Client.Value != "100" || creds.Client.Source != SourceArgument {
		t.Errorf("Client = %+v, want 100 from argument", creds.Client)
	}
	if creds.Password.Source != SourceUnset {
		t.Errorf("Password.Source = %s, want unset", creds.Password.Source)
	}
}

func TestResolveCredentialsLanguageDefault(t *testing.T) {
	clearCredentialEnv(t)

	creds := ResolveCredentials(CredentialArgs{})
	if creds.Language.Value != "EN" || creds.Language.Source != SourceDefault {
		t.Errorf("Language = %+v, want EN from default", creds.Language)
	}
}

func TestResolveCredentialsSSO(t *testing.T) {
	tests := []struct {
		name string
		arg  bool
		env  string
		want bool
	}{
		{name: "argument wins", arg: true, env: "", want: true},
		{name: "env true", arg: false, env: "true", want: true},
		{name: "env numeric", arg: false, env: "1", want: true},
		{name: "env yes", arg: false, env: "yes", want: true},
		{name: "env garbage", arg: false, env: "maybe", want: false},
		{name: "unset", arg: false, env: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentialEnv(t)
			t.Setenv(EnvUseSSO, tt.env)
			creds := ResolveCredentials(CredentialArgs{UseSSO: tt.arg})
			if creds.UseSSO != tt.want {
				t.Errorf("UseSSO = %t, want %t", creds.UseSSO, tt.want)
			}
		})
	}
}

func TestMissingNamesEnvironmentFallback(t *testing.T) {
	clearCredentialEnv(t)

	creds := ResolveCredentials(CredentialArgs{User: "jdoe"})
	missing := creds.Missing()

	want := []string{"system (SAP_SYSTEM)", "client (SAP_CLIENT)", "password (SAP_PASSWORD)"}
	if !slices.Equal(missing, want) {
		t.Errorf("Missing() = %v, want %v", missing, want)
	}
}

func TestMissingWithSSO(t *testing.T) {
	clearCredentialEnv(t)

	creds := ResolveCredentials(CredentialArgs{UseSSO: true})
	if missing := creds.Missing(); !slices.Equal(missing, []string{"system (SAP_SYSTEM)"}) {
		t.Errorf("Missing() = %v, want only the system", missing)
	}

	creds = ResolveCredentials(CredentialArgs{System: "PRD", UseSSO: true})
	if missing := creds.Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
}
