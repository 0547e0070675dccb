package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
	envFile  = ".env"
)

// Keys.
const (
	KeyProjectsPath    = "projects_path"
	KeyTemplateURL     = "template_url"
	KeyTemplatePrefix  = "template_prefix"
	KeyEditorPath      = "editor_path"
	KeyInstallerPath   = "installer_path"
	KeyNpxPath         = "npx_path"
	KeyDownloadTimeout = "download_timeout"
	KeyAllowFirstWrite = "allow_first_write"
	KeyLaunchEditor    = "launch_editor"
	KeyLogLevel        = "log_level"
)

// Config is the resolved configuration.
type Config struct {
	ProjectsPath    string        `mapstructure:"projects_path"`
	TemplateURL     string        `mapstructure:"template_url"`
	TemplatePrefix  string        `mapstructure:"template_prefix"`
	EditorPath      string        `mapstructure:"editor_path"`
	InstallerPath   string        `mapstructure:"installer_path"`
	NpxPath         string        `mapstructure:"npx_path"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	AllowFirstWrite bool          `mapstructure:"allow_first_write"`
	LaunchEditor    bool          `mapstructure:"launch_editor"`
	LogLevel        string        `mapstructure:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		KeyProjectsPath:    "",
		KeyTemplateURL:     branding.TemplateURL(),
		KeyTemplatePrefix:  branding.TemplatePrefix(),
		KeyEditorPath:      "/usr/local/bin/cursor",
		KeyInstallerPath:   "npm",
		KeyNpxPath:         "npx",
		KeyDownloadTimeout: "2m",
		KeyAllowFirstWrite: false,
		KeyLaunchEditor:    true,
		KeyLogLevel:        "info",
	}
}

// Keys returns every recognised key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults()))
	for k := range defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the path to the config directory (~/.artifactsplus/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, fileName+"."+fileType)
}

// EnvFiles returns the .env files read by the CLI, highest precedence first:
// the working directory, then dir.
func EnvFiles(dir string) []string {
	return []string{envFile, filepath.Join(dir, envFile)}
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Store reads and writes settings rooted at one config directory.
type Store struct {
	dir string
	v   *viper.Viper
}

// Load reads dir/config.yaml, the given .env files and the environment.
// Missing files are skipped. Variables already present in the environment
// are never overwritten by a .env file.
func Load(dir string, envFiles ...string) (*Store, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(FilePath(dir))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	if err := v.BindEnv(KeyProjectsPath, branding.EnvVar(KeyProjectsPath), "PROJECTS_PATH"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return &Store{dir: dir, v: v}, nil
}

// BindFlag lets a changed command-line flag override key.
func (s *Store) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return nil
	}
	return s.v.BindPFlag(key, f)
}

// Config decodes the current settings.
func (s *Store) Config() (Config, error) {
	var c Config
	if err := s.v.Unmarshal(&c); err != nil {
		return Config{}, errs.E(errs.Validation, "decode config", FilePath(s.dir), err)
	}
	c.ProjectsPath = expandHome(c.ProjectsPath)
	return c, nil
}

// Get returns a config value by key. Returns empty string if not set.
func (s *Store) Get(key string) string {
	return s.v.GetString(key)
}

// Set writes a key-value pair to the config file. Only keys that are
// already in the file, plus key, are written.
func (s *Store) Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return errs.Errorf(errs.Validation, "set config", "", "unknown key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(s.dir); err != nil {
		return err
	}

	path := FilePath(s.dir)
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file: %w", err)
	}
	typed, err := coerce(key, value)
	if err != nil {
		return err
	}
	file.Set(key, typed)

	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.v.Set(key, typed)
	return nil
}

// coerce converts value to the type of key's default.
func coerce(key, value string) (any, error) {
	switch defaults()[key].(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errs.Errorf(errs.Validation, "set config", "", "%s must be true or false, got %q", key, value)
		}
		return b, nil
	}
	if key == KeyDownloadTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return nil, errs.Errorf(errs.Validation, "set config", "", "%s must be a duration such as 90s, got %q", key, value)
		}
	}
	return value, nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return FilePath(s.dir)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
