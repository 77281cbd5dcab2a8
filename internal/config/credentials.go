package config

import (
	"os"
	"strings"
)

// Environment variable names for credential fallback.
const (
	EnvSystem   = "SAP_SYSTEM"
	EnvClient   = "SAP_CLIENT"
	EnvUser     = "SAP_USER"
	EnvPassword = "SAP_PASSWORD"
	EnvLanguage = "SAP_LANGUAGE"
	EnvUseSSO   = "SAP_USE_SSO"
)

// Source names the layer that satisfied a credential field.
type Source string

const (
	SourceArgument    Source = "argument"
	SourceEnvironment Source = "environment"
	SourceDefault     Source = "default"
	SourceUnset       Source = "unset"
)

// Field is one resolved credential value and where it came from.
type Field struct {
	Value  string
	Source Source
}

// Set reports whether the field resolved to a non-empty value.
func (f Field) Set() bool { return f.Value != "" }

// CredentialArgs are the caller-supplied login parameters; empty strings
// mean "fall back".
type CredentialArgs struct {
	System   string
	Client   string
	User     string
	Password string
	Language string
	UseSSO   bool
}

// Credentials is the result of layered resolution.
type Credentials struct {
	System   Field
	Client   Field
	User     Field
	Password Field
	Language Field

	UseSSO    bool
	SSOSource Source
}

// ResolveCredentials resolves each field argument > environment > default.
// The SSO flag is special: an explicit true argument wins, otherwise the
// environment variable decides (accepting true/1/yes).
func ResolveCredentials(args CredentialArgs) Credentials {
	c := Credentials{
		System:   resolveField(args.System, EnvSystem, ""),
		Client:   resolveField(args.Client, EnvClient, ""),
		User:     resolveField(args.User, EnvUser, ""),
		Password: resolveField(args.Password, EnvPassword, ""),
		Language: resolveField(args.Language, EnvLanguage, "EN"),
	}

	c.UseSSO = args.UseSSO
	c.SSOSource = SourceArgument
	if !args.UseSSO {
		raw := strings.ToLower(os.Getenv(EnvUseSSO))
		c.UseSSO = raw == "true" || raw == "1" || raw == "yes"
		c.SSOSource = SourceEnvironment
		if raw == "" {
			c.SSOSource = SourceDefault
		}
	}
	return c
}

func resolveField(arg, envName, fallback string) Field {
	if arg != "" {
		return Field{Value: arg, Source: SourceArgument}
	}
	if v := os.Getenv(envName); v != "" {
		return Field{Value: v, Source: SourceEnvironment}
	}
	if fallback != "" {
		return Field{Value: fallback, Source: SourceDefault}
	}
	return Field{Source: SourceUnset}
}

// Missing returns the required fields that did not resolve, each named with
// its environment fallback ("system (SAP_SYSTEM)"). System is always
// required; client, user, and password only for credential login.
func (c Credentials) Missing() []string {
	var missing []string
	if !c.System.Set() {
		missing = append(missing, "system ("+EnvSystem+")")
	}
	if c.UseSSO {
		return missing
	}
	if !c.Client.Set() {
		missing = append(missing, "client ("+EnvClient+")")
	}
	if !c.User.Set() {
		missing = append(missing, "user ("+EnvUser+")")
	}
	if !c.Password.Set() {
		missing = append(missing, "password ("+EnvPassword+")")
	}
	return missing
}
