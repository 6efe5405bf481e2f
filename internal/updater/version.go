package updater

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Version represents a semantic version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

// ParseVersion parses "v1.2.3", "1.2", "1.2.3-rc1" and "1.2.3+build" forms.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")

	var v Version
	core := s
	if idx := strings.IndexAny(s, "-+"); idx != -1 {
		core, v.Prerelease = s[:idx], s[idx+1:]
	}

	parts := strings.Split(core, ".")
	if core == "" || len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	fields := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		*fields[i] = n
	}

	return v, nil
}

// String returns the version without a leading 'v'.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare returns -1, 0 or 1. A release sorts after any of its prereleases.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}
	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	}
	return cmp.Compare(v.Prerelease, other.Prerelease)
}

// IsNewerThan returns true if v is newer than other.
func (v Version) IsNewerThan(other Version) bool {
	return v.Compare(other) > 0
}
