package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_AllUnset(t *testing.T) {
	_, err := NewResolver(NewMapEnvironment(nil)).Resolve()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationIncomplete)

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{EnvHost, EnvUser, EnvPassword}, incomplete.Missing)
	assert.Contains(t, err.Error(), RemediationHint)
}

func TestResolve_ProtocolDefaults(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unset", map[string]string{EnvHost: "10.0.0.5", EnvUser: "admin", EnvPassword: "x"}},
		{"empty", map[string]string{EnvHost: "10.0.0.5", EnvUser: "admin", EnvPassword: "x", EnvProtocol: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewResolver(NewMapEnvironment(tt.vars)).Resolve()
			require.NoError(t, err)
			assert.Equal(t, DefaultProtocol, cfg.Protocol)
		})
	}
}

func TestResolve_Complete(t *testing.T) {
	env := NewMapEnvironment(map[string]string{
		EnvHost:     "10.0.0.5",
		EnvUser:     "admin",
		EnvPassword: "x",
		EnvProtocol: "https",
	})

	cfg, err := NewResolver(env).Resolve()
	require.NoError(t, err)
	assert.Equal(t, HC3{Host: "10.0.0.5", User: "admin", Password: "x", Protocol: "https"}, cfg)
}

func TestResolve_EmptyRequiredValues(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		missing []string
	}{
		{
			name:    "empty password",
			vars:    map[string]string{EnvHost: "h", EnvUser: "u", EnvPassword: ""},
			missing: []string{EnvPassword},
		},
		{
			name:    "missing host and user",
			vars:    map[string]string{EnvPassword: "p", EnvProtocol: "https"},
			missing: []string{EnvHost, EnvUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(NewMapEnvironment(tt.vars)).Resolve()
			var incomplete *IncompleteError
			require.True(t, errors.As(err, &incomplete))
			assert.Equal(t, tt.missing, incomplete.Missing)
		})
	}
}

func TestResolve_NoSideEffects(t *testing.T) {
	env := NewMapEnvironment(map[string]string{EnvHost: "h"})
	_, _ = NewResolver(env).Resolve()

	assert.Equal(t, []string{EnvHost}, env.Keys())
}

func TestResolve_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvHost, "hc3.local")
	t.Setenv(EnvUser, "admin")
	t.Setenv(EnvPassword, "secret")
	t.Setenv(EnvProtocol, "https")

	cfg, err := NewResolver(nil).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "hc3.local", cfg.Host)
	assert.Equal(t, "https", cfg.Protocol)
}

func TestPresence(t *testing.T) {
	env := NewMapEnvironment(map[string]string{EnvHost: "h", EnvPassword: ""})

	assert.Equal(t, map[string]bool{
		EnvHost:     true,
		EnvUser:     false,
		EnvPassword: true,
		EnvProtocol: false,
	}, Presence(env))
}
