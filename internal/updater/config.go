package updater

import (
	"errors"
	"time"
)

// Config holds updater configuration.
type Config struct {
	// Enabled allows the UI to query for updates.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Channel specifies which release channel to follow.
	Channel Channel `yaml:"channel" json:"channel"`

	// GitHubOwner is the GitHub repository owner.
	GitHubOwner string `yaml:"github_owner" json:"github_owner"`

	// GitHubRepo is the GitHub repository name.
	GitHubRepo string `yaml:"github_repo" json:"github_repo"`

	// APIURL overrides the GitHub API base URL (GitHub Enterprise, tests).
	APIURL string `yaml:"api_url" json:"api_url"`

	// Timeout bounds a single check.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// Channel specifies which release channel to follow.
type Channel string

const (
	// ChannelStable only includes stable releases.
	ChannelStable Channel = "stable"

	// ChannelPrerelease includes prereleases.
	ChannelPrerelease Channel = "prerelease"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Channel:     ChannelStable,
		GitHubOwner: "hc3-tools",
		GitHubRepo:  "quickapp-manager",
		APIURL:      githubAPIURL,
		Timeout:     30 * time.Second,
	}
}

// Validate checks that an enabled updater knows where to look.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.GitHubOwner == "" || c.GitHubRepo == "" {
		return errors.New("updater: github_owner and github_repo are required")
	}
	switch c.Channel {
	case "", ChannelStable, ChannelPrerelease:
	default:
		return errors.New("updater: unknown channel " + string(c.Channel))
	}
	return nil
}

// IsPrerelease returns true if the channel includes prereleases.
func (c Channel) IsPrerelease() bool {
	return c == ChannelPrerelease
}
