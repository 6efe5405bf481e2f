package config

import (
	"os"
	"sort"
	"sync"
)

// Environment is the key/value store configuration is read from and layered into.
// It satisfies go-simpler.org/env's Source interface.
type Environment interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

// OSEnvironment is the process environment.
type OSEnvironment struct{}

// LookupEnv implements Environment.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Setenv implements Environment.
func (OSEnvironment) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// MapEnvironment is an in-memory Environment, safe for concurrent use.
type MapEnvironment struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnvironment returns a MapEnvironment seeded with vars.
func NewMapEnvironment(vars map[string]string) *MapEnvironment {
	m := &MapEnvironment{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

// LookupEnv implements Environment.
func (m *MapEnvironment) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

// Setenv implements Environment.
func (m *MapEnvironment) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

// Keys returns the defined keys in sorted order.
func (m *MapEnvironment) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
