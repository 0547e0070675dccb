package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinNodeVersion is the oldest Node.js release the scaffolded template builds with.
const MinNodeVersion = "18.0.0"

// NodeVersion runs `node --version` and parses the result.
func NodeVersion(ctx context.Context, r Runner) (*semver.Version, error) {
	out, err := r.Run(ctx, "", "node", "--version")
	if err != nil {
		return nil, err
	}
	v, err := parseSemver(strings.TrimSpace(out.Stdout))
	if err != nil {
		return nil, fmt.Errorf("parsing node version %q: %w", strings.TrimSpace(out.Stdout), err)
	}
	return v, nil
}

// SatisfiesMinimum reports whether version is at least minimum.
// Handles "v" prefix tolerance.
func SatisfiesMinimum(version, minimum string) (bool, error) {
	v, err := parseSemver(version)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	m, err := parseSemver(minimum)
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", minimum, err)
	}
	return !v.LessThan(m), nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
