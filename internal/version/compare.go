package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// CheckCompatibility checks that a client pinned to requested can consume
// metrics from an engine at engineVersion.
//
// Compatibility rules:
//   - an empty request or a "main" build on either side skips the check
//   - major and minor versions must match
//   - patch versions may differ
//
// A mismatch is reported as VersionMismatch, an unparsable version as InvalidParameter.
func CheckCompatibility(engineVersion string, requested string) error {
	engineVersion = strings.TrimPrefix(strings.TrimSpace(engineVersion), "v")
	requested = strings.TrimPrefix(strings.TrimSpace(requested), "v")

	if requested == "" || engineVersion == "main" || requested == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid engine version '%s'", engineVersion)
	}

	requestedSemver, err := semver.NewVersion(requested)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid requested version '%s'", requested)
	}

	if engineSemver.Major() != requestedSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: engine is %d.x.x but client requires %d.x.x",
			engineSemver.Major(), requestedSemver.Major())
	}

	if engineSemver.Minor() != requestedSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: engine is %d.%d.x but client requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			requestedSemver.Major(), requestedSemver.Minor())
	}

	return nil
}
