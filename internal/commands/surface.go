// Package commands is the set of operations the UI can invoke directly.
package commands

import (
	"errors"

	"github.com/hc3-tools/quickapp-manager/internal/config"
	"github.com/hc3-tools/quickapp-manager/internal/launcher"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/metrics"
)

// Command names used for logging and metrics.
const (
	CommandGetHC3Config = "get_hc3_config"
	CommandOpenURL      = "open_url"
)

// Surface is bound to the UI. Its methods may run concurrently and share no mutable state.
type Surface struct {
	resolver *config.Resolver
	launcher launcher.Launcher
	metrics  *metrics.Metrics
}

// New creates a Surface. A nil launcher selects the platform default.
func New(resolver *config.Resolver, l launcher.Launcher, m *metrics.Metrics) *Surface {
	if l == nil {
		l = launcher.Default()
	}
	return &Surface{resolver: resolver, launcher: l, metrics: m}
}

// GetHC3Config returns the HC3 connection settings read from the environment at call time.
func (s *Surface) GetHC3Config() (config.HC3, error) {
	cfg, err := s.resolver.Resolve()
	s.metrics.RecordCommand(CommandGetHC3Config, err)
	if err != nil {
		logging.WithComponent("commands").Warn("hc3 config unavailable", "error", err)
		if errors.Is(err, config.ErrConfigurationIncomplete) {
			return config.HC3{}, errors.New(config.RemediationHint)
		}
		return config.HC3{}, err
	}
	return cfg, nil
}

// OpenURL opens url in the system browser. The string is passed through unvalidated.
func (s *Surface) OpenURL(url string) error {
	logging.WithComponent("commands").Info("opening URL in browser", "url", url)

	err := s.launcher.Launch(url)
	s.metrics.RecordCommand(CommandOpenURL, err)
	if err != nil {
		logging.WithComponent("commands").Warn("failed to open URL", "url", url, "error", err)
		return err
	}
	return nil
}
