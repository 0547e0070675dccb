// Package config loads the settings every operation runs with.
//
// Values come, highest precedence first, from bound command-line flags,
// ARTIFACTS_* environment variables (and the bare PROJECTS_PATH), .env files,
// ~/.artifactsplus/config.yaml, and built-in defaults. The result is an
// explicit Config value that callers pass down rather than a global.
package config
