package artifact

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/components"
	"github.com/artifactsplus/artifactsplus/internal/config"
	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/launcher"
	"github.com/artifactsplus/artifactsplus/internal/project"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
	"github.com/artifactsplus/artifactsplus/internal/scaffold"
)

// Hook runs after a write has committed. It cannot change the write's result.
type Hook func(ctx context.Context, projectPath string)

// Manager runs artifact operations against one projects directory.
type Manager struct {
	cfg        config.Config
	fetcher    *scaffold.Fetcher
	replacer   *project.Replacer
	components *components.Installer
	hooks      []Hook
	logger     *slog.Logger

	wg sync.WaitGroup
}

type options struct {
	runner       runtime.Runner
	httpClient   *http.Client
	progress     io.Writer
	logger       *slog.Logger
	now          func() time.Time
	hooks        []Hook
	launchErrors func(projectPath string, err error)
}

// Option configures a Manager.
type Option func(*options)

// WithRunner sets the runner for the installer, the editor and the
// component generator.
func WithRunner(r runtime.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithHTTPClient sets the client used to download templates.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithProgress reports template download progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *options) { o.progress = w }
}

// WithLogger sets the logger shared by every step.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHook adds a post-write hook, run after the editor hook.
func WithHook(h Hook) Option {
	return func(o *options) { o.hooks = append(o.hooks, h) }
}

// WithLaunchErrors receives editor launch failures instead of the log.
func WithLaunchErrors(fn func(projectPath string, err error)) Option {
	return func(o *options) { o.launchErrors = fn }
}

// New builds a Manager from cfg. ProjectsPath must be set.
func New(cfg config.Config, opts ...Option) (*Manager, error) {
	if cfg.ProjectsPath == "" {
		return nil, errs.Errorf(errs.Validation, "configure", "", "projects path is not set (set %s or PROJECTS_PATH)", branding.EnvVar(config.KeyProjectsPath))
	}

	o := options{
		runner:     &runtime.ExecRunner{},
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	fetchOpts := []scaffold.Option{
		scaffold.WithHTTPClient(o.httpClient),
		scaffold.WithTimeout(cfg.DownloadTimeout),
		scaffold.WithInstaller(cfg.InstallerPath),
		scaffold.WithRunner(o.runner),
		scaffold.WithLogger(o.logger),
	}
	if o.progress != nil {
		fetchOpts = append(fetchOpts, scaffold.WithProgress(o.progress))
	}

	m := &Manager{
		cfg:     cfg,
		fetcher: scaffold.New(cfg.TemplateURL, cfg.TemplatePrefix, fetchOpts...),
		replacer: &project.Replacer{
			AllowFirstWrite: cfg.AllowFirstWrite,
			Now:             o.now,
		},
		components: &components.Installer{Npx: cfg.NpxPath, Runner: o.runner},
		logger:     o.logger,
	}

	if cfg.LaunchEditor {
		l := &launcher.Launcher{
			Editor:  cfg.EditorPath,
			Runner:  o.runner,
			OnError: o.launchErrors,
			Logger:  o.logger,
		}
		m.hooks = append(m.hooks, Hook(l.Hook()))
	}
	m.hooks = append(m.hooks, o.hooks...)

	return m, nil
}

// Config returns the configuration the Manager was built with.
func (m *Manager) Config() config.Config {
	return m.cfg
}

// Path resolves name to its project directory.
func (m *Manager) Path(name string) (string, error) {
	if err := project.ValidateName(name); err != nil {
		return "", err
	}
	return project.Resolve(m.cfg.ProjectsPath, name), nil
}

// Created describes a new project.
type Created struct {
	Name string
	Path string
}

// Create makes the project folder and scaffolds it from the template. When
// the name is taken it returns the existing path and errs.ErrAlreadyExists
// without touching anything.
func (m *Manager) Create(ctx context.Context, name string) (*Created, error) {
	path, err := project.Create(m.cfg.ProjectsPath, name)
	if errors.Is(err, errs.ErrAlreadyExists) {
		m.logger.Info("project already exists", "project", name, "path", path)
		return &Created{Name: name, Path: path}, err
	}
	if err != nil {
		return nil, err
	}
	m.logger.Info("project folder created", "project", name, "path", path)

	if _, err := m.fetcher.Scaffold(ctx, path); err != nil {
		m.logger.Error("scaffolding failed", "project", name, "error", err)
		return &Created{Name: name, Path: path}, err
	}
	m.logger.Info("project scaffolded", "project", name, "path", path)
	return &Created{Name: name, Path: path}, nil
}

// Written describes a committed write.
type Written struct {
	Name string
	Path string
	File string
}

// Write replaces the project's managed file with content, keeping the old
// version as a backup, then starts the post-write hooks. The hooks run after
// Write has its result and never affect it; Wait blocks until they finish.
func (m *Manager) Write(ctx context.Context, name, content string) (*Written, error) {
	if content == "" {
		return nil, errs.Errorf(errs.Validation, "replace managed file", "", "no content provided to write")
	}
	path, err := m.existing(name)
	if err != nil {
		return nil, err
	}

	file, err := m.replacer.Replace(path, content)
	if err != nil {
		return nil, err
	}
	m.logger.Info("managed file written", "project", name, "file", file, "bytes", len(content))

	res := &Written{Name: name, Path: path, File: file}
	m.runHooks(context.WithoutCancel(ctx), path)
	return res, nil
}

// Wait blocks until every started hook has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) runHooks(ctx context.Context, path string) {
	if len(m.hooks) == 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for _, h := range m.hooks {
			h(ctx, path)
		}
	}()
}

// Installed describes a component install.
type Installed struct {
	Name       string
	Components []string
	Output     string
}

// InstallComponents adds every ui component the managed file imports.
func (m *Manager) InstallComponents(ctx context.Context, name string) (*Installed, error) {
	path, err := m.existing(name)
	if err != nil {
		return nil, err
	}

	file := project.ManagedPath(path, project.DefaultExt)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.E(errs.NotFound, "read managed file", file, err)
		}
		return nil, errs.E(errs.Filesystem, "read managed file", file, err)
	}

	names := components.Analyze(string(data)).UIComponents
	res, err := m.components.Install(ctx, path, names)
	if err != nil {
		return nil, err
	}
	m.logger.Info("ui components installed", "project", name, "components", names)
	return &Installed{Name: name, Components: res.Components, Output: res.Output}, nil
}

// Backups lists the project's backups, oldest first.
func (m *Manager) Backups(name string) ([]project.Backup, error) {
	path, err := m.existing(name)
	if err != nil {
		return nil, err
	}
	return project.ListBackups(path)
}

// existing resolves name and checks that the project directory exists.
func (m *Manager) existing(name string) (string, error) {
	path, err := m.Path(name)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errs.Errorf(errs.NotFound, "open project", path, "project %q does not exist", name)
		}
		return "", errs.E(errs.Filesystem, "open project", path, err)
	}
	if !info.IsDir() {
		return "", errs.Errorf(errs.Filesystem, "open project", path, "%s is not a directory", path)
	}
	return path, nil
}
