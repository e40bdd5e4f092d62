// Package dver defines DataVersion, the non-negative integer schema-version tag
// that every other package in the engine orders fixes and schemas against.
package dver

import (
	"fmt"
	"math"

	"github.com/Masterminds/semver/v3"
)

// DataVersion is an ordered, non-negative integer tag for a schema revision.
// Zero and math.MaxUint32 are both legal values; the type is immutable.
type DataVersion uint32

// Max is the largest legal DataVersion, reserved by convention for "no upper bound".
const Max DataVersion = math.MaxUint32

// Equal reports whether v and other denote the same version.
func (v DataVersion) Equal(other DataVersion) bool { return v == other }

// IsOlderThan reports whether v precedes other.
func (v DataVersion) IsOlderThan(other DataVersion) bool { return v < other }

// IsNewerThan reports whether v follows other.
func (v DataVersion) IsNewerThan(other DataVersion) bool { return v > other }

// Compare returns -1, 0, or 1 as v is older than, equal to, or newer than other.
func (v DataVersion) Compare(other DataVersion) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

// String renders the version as a plain decimal number.
func (v DataVersion) String() string {
	return fmt.Sprintf("%d", uint32(v))
}

// Range is a closed [From, To] interval of DataVersions (both ends included), mirroring the
// (from, to) pair threaded through Fixer.Update and FixRegistry.GetFixes.
type Range struct {
	From DataVersion
	To   DataVersion
}

// Contains reports whether v lies within [r.From, r.To].
func (r Range) Contains(v DataVersion) bool {
	return !v.IsOlderThan(r.From) && !v.IsNewerThan(r.To)
}

// Overlaps reports whether r and other share any version.
func (r Range) Overlaps(other Range) bool {
	return !r.To.IsOlderThan(other.From) && !other.To.IsOlderThan(r.From)
}

// FromSemver maps a semantic-version string onto a monotonic DataVersion ordinal by
// packing major/minor/patch into a single integer (major*1_000_000 + minor*1_000 +
// patch). This lets applications that tag their persisted data with a semver string
// (rather than a bare integer) still drive the engine's integer-keyed registries.
func FromSemver(raw string) (DataVersion, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return 0, fmt.Errorf("dver: invalid semver %q: %w", raw, err)
	}
	if v.Major() < 0 || v.Minor() < 0 || v.Patch() < 0 {
		return 0, fmt.Errorf("dver: negative semver component in %q", raw)
	}
	ordinal := v.Major()*1_000_000 + v.Minor()*1_000 + v.Patch()
	if ordinal > math.MaxUint32 {
		return 0, fmt.Errorf("dver: semver %q overflows DataVersion", raw)
	}
	return DataVersion(ordinal), nil
}
