// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded into the binary; forks edit it to rename the
// command, the MCP server entry, and the default template source.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	ServerName     string `yaml:"server_name"`
	ServerVersion  string `yaml:"server_version"`
	TemplateURL    string `yaml:"template_url"`
	TemplatePrefix string `yaml:"template_prefix"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:        "artifactsplus",
			DisplayName:    "Artifacts Plus",
			Description:    "Artifact project manager for AI assistant hosts",
			HomeDir:        ".artifactsplus",
			EnvPrefix:      "ARTIFACTS",
			ServerName:     "mcp-artifacts-plus",
			ServerVersion:  "1.0.0",
			TemplateURL:    "https://codeload.github.com/artifactsplus/artifact-templates/zip/refs/heads/main",
			TemplatePrefix: "artifact-templates-main/react-ts/",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "artifactsplus").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".artifactsplus").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "ARTIFACTS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ServerName returns the name the MCP server announces and registers under
// in the host configuration.
func ServerName() string { load(); return defaults.ServerName }

// ServerVersion returns the protocol-level server version.
func ServerVersion() string { load(); return defaults.ServerVersion }

// TemplateURL returns the default zip archive scaffolds are fetched from.
func TemplateURL() string { load(); return defaults.TemplateURL }

// TemplatePrefix returns the archive subtree that holds the project template.
func TemplatePrefix() string { load(); return defaults.TemplatePrefix }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "ARTIFACTS_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
