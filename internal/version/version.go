// Package version carries the build version of the streamer binary and
// checks config files against it.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
)

// Version is set at build time:
// -ldflags "-X github.com/rxtech-lab/argo-streamer/internal/version.Version=1.2.3"
// "main" marks a development build.
var Version = "main"

const development = "main"

// CheckConfig reports whether a config file written for configVersion can
// be loaded by binaryVersion. An empty config version and development
// builds always pass. Otherwise major versions must match and the config
// minor version may not be newer than the binary's.
func CheckConfig(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == development || configVersion == development {
		return nil
	}

	binary, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid binary version %q", binaryVersion)
	}

	cfg, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid config version %q", configVersion)
	}

	if binary.Major() != cfg.Major() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"major version mismatch: binary is %d.x.x but config targets %d.x.x", binary.Major(), cfg.Major())
	}

	if cfg.Minor() > binary.Minor() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"config targets %d.%d.x, newer than binary %s", cfg.Major(), cfg.Minor(), binary.String())
	}

	return nil
}
