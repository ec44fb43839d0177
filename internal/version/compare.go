package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckVersionCompatibility reports whether weights saved by savedVersion can be used by
// an engine running engineVersion. Indicator rules and the weighted vote are stable across
// patch releases only, so major and minor must match. "main" on either side skips the check.
//
// Examples:
//   - engine 0.1.0, saved 0.1.4 -> OK
//   - engine 0.2.0, saved 0.1.0 -> ERROR (minor differs)
//   - engine 1.0.0, saved 0.9.0 -> ERROR (major differs)
//   - engine main,  saved 0.1.0 -> OK
func CheckVersionCompatibility(engineVersion, savedVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	savedVersion = strings.TrimPrefix(savedVersion, "v")

	if engineVersion == "main" || savedVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	savedSemver, err := semver.NewVersion(savedVersion)
	if err != nil {
		return fmt.Errorf("invalid saved weights version '%s': %w", savedVersion, err)
	}

	if engineSemver.Major() != savedSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but weights were tuned by %d.x.x",
			engineSemver.Major(), savedSemver.Major())
	}

	if engineSemver.Minor() != savedSemver.Minor() {
		return fmt.Errorf("minor version mismatch: engine is %d.%d.x but weights were tuned by %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			savedSemver.Major(), savedSemver.Minor())
	}

	return nil
}
