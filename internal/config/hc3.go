// Package config resolves the HC3 connection settings and the application settings file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"go-simpler.org/env"
)

// Environment variable names read by the resolver.
const (
	EnvHost     = "HC3_HOST"
	EnvUser     = "HC3_USER"
	EnvPassword = "HC3_PASSWORD"
	EnvProtocol = "HC3_PROTOCOL"

	DefaultProtocol = "http"
)

// Variables lists the HC3 variables in reporting order.
var Variables = []string{EnvHost, EnvUser, EnvPassword, EnvProtocol}

// RemediationHint is shown to the user when credentials are missing.
const RemediationHint = "HC3 credentials not configured. Please set up .env file."

// ErrConfigurationIncomplete indicates host, user or password is missing.
var ErrConfigurationIncomplete = errors.New("configuration incomplete")

// IncompleteError reports which required variables were missing or empty.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s (missing %s)", RemediationHint, strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match ErrConfigurationIncomplete.
func (e *IncompleteError) Unwrap() error {
	return ErrConfigurationIncomplete
}

// HC3 is the resolved connection record handed to the UI.
type HC3 struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Protocol string `json:"protocol"`
}

type hc3Env struct {
	Host     string `env:"HC3_HOST"`
	User     string `env:"HC3_USER"`
	Password string `env:"HC3_PASSWORD"`
	Protocol string `env:"HC3_PROTOCOL" default:"http"`
}

// Resolver reads HC3 settings from an Environment on every call.
type Resolver struct {
	env Environment
}

// NewResolver creates a Resolver over e. A nil e means the process environment.
func NewResolver(e Environment) *Resolver {
	if e == nil {
		e = OSEnvironment{}
	}
	return &Resolver{env: e}
}

// Resolve reads the four HC3 variables. It never caches and has no side effects.
func (r *Resolver) Resolve() (HC3, error) {
	var raw hc3Env
	if err := env.Load(&raw, &env.Options{Source: r.env}); err != nil {
		return HC3{}, fmt.Errorf("read environment: %w", err)
	}

	var missing []string
	if raw.Host == "" {
		missing = append(missing, EnvHost)
	}
	if raw.User == "" {
		missing = append(missing, EnvUser)
	}
	if raw.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return HC3{}, &IncompleteError{Missing: missing}
	}

	protocol := raw.Protocol
	if protocol == "" {
		protocol = DefaultProtocol
	}

	return HC3{
		Host:     raw.Host,
		User:     raw.User,
		Password: raw.Password,
		Protocol: protocol,
	}, nil
}

// Presence reports, per HC3 variable, whether it is defined. Values are never exposed.
func Presence(e Environment) map[string]bool {
	out := make(map[string]bool, len(Variables))
	for _, name := range Variables {
		_, ok := e.LookupEnv(name)
		out[name] = ok
	}
	return out
}
