// Package version parses and compares dotted numeric version identifiers
// such as "1.9.1" or "v1.22".
//
// Comparison is component-wise and numeric, so "1.10.0" sorts after "1.9.1".
// Missing trailing components count as zero ("1.22" equals "1.22.0").
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a parsed dotted numeric version.
type Version struct {
	raw string
	v   *semver.Version
}

// Parse parses a dotted numeric version string. A leading "v" is accepted.
// Anything beyond major.minor.patch numbers (pre-release tags, a fourth
// component, letters) is rejected.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version string")
	}
	v, err := semver.NewVersion(trimmed)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Version{}, fmt.Errorf("invalid version %q: only numeric components are allowed", s)
	}
	return Version{raw: trimmed, v: v}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as it was given.
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to
// or greater than o.
func (v Version) Compare(o Version) int {
	return v.v.Compare(o.v)
}

// AtLeast reports whether v >= minimum.
func (v Version) AtLeast(minimum Version) bool {
	return v.Compare(minimum) >= 0
}

// AtLeast parses both strings and reports whether installed >= minimum.
func AtLeast(installed, minimum string) (bool, error) {
	iv, err := Parse(installed)
	if err != nil {
		return false, err
	}
	mv, err := Parse(minimum)
	if err != nil {
		return false, err
	}
	return iv.AtLeast(mv), nil
}
