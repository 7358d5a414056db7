package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// CheckConfigCompatibility checks whether a policy configuration written against
// configVersion can be loaded by a build that supports schema supportedVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The config minor version may not be newer than the supported minor version
//   - Patch versions are ignored
//
// Examples:
//   - Supported 1.1.0, Config 1.0.0 -> OK (older minor)
//   - Supported 1.1.0, Config 1.1.7 -> OK (patch differs)
//   - Supported 1.1.0, Config 1.2.0 -> ERROR (config is newer)
//   - Supported 1.1.0, Config 2.0.0 -> ERROR (major differs)
func CheckConfigCompatibility(supportedVersion, configVersion string) error {
	supportedVersion = strings.TrimPrefix(supportedVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if supportedVersion == "main" || configVersion == "main" {
		return nil
	}

	supported, err := semver.NewVersion(supportedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid supported version '%s'", supportedVersion)
	}

	requested, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if supported.Major() != requested.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: this build reads %d.x.x configs but the config is %d.x.x",
			supported.Major(), requested.Major())
	}

	if requested.Minor() > supported.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: this build reads up to %d.%d.x but the config is %d.%d.x",
			supported.Major(), supported.Minor(), requested.Major(), requested.Minor())
	}

	return nil
}

// CheckConfigVersion checks configVersion against the schema version of this build.
func CheckConfigVersion(configVersion string) error {
	return CheckConfigCompatibility(SchemaVersion, configVersion)
}
