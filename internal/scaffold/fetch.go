package scaffold

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
)

// DefaultTimeout bounds the archive download.
const DefaultTimeout = 2 * time.Minute

// Fetcher scaffolds projects from one template archive.
type Fetcher struct {
	url        string
	prefix     string
	httpClient *http.Client
	timeout    time.Duration
	installer  string
	runner     runtime.Runner
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithTimeout bounds the download. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithInstaller sets the package manager executable run with "install".
// An empty name keeps the default.
func WithInstaller(name string) Option {
	return func(f *Fetcher) {
		if name != "" {
			f.installer = name
		}
	}
}

// WithRunner sets the runner used for the install step.
func WithRunner(r runtime.Runner) Option {
	return func(f *Fetcher) {
		f.runner = r
	}
}

// WithProgress reports download progress to w.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// WithLogger sets the logger for scaffold steps.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// New creates a Fetcher for the archive at url whose template lives under
// prefix (for example "templates-main/react-ts/").
func New(url, prefix string, opts ...Option) *Fetcher {
	f := &Fetcher{
		url:        url,
		prefix:     prefix,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		installer:  "npm",
		runner:     &runtime.ExecRunner{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scaffold materializes the template into target, which must already exist,
// and installs its dependencies. It returns target.
//
// Scaffold is not idempotent: a second run overwrites extracted files. A
// failed install leaves the populated directory in place.
func (f *Fetcher) Scaffold(ctx context.Context, target string) (string, error) {
	archivePath, err := f.Download(ctx)
	if err != nil {
		return "", err
	}
	defer os.Remove(archivePath)

	written, err := f.Extract(archivePath, target)
	if err != nil {
		return "", err
	}
	f.logger.Info("template extracted", "target", target, "files", written)

	if err := Flatten(target, f.prefix); err != nil {
		return "", err
	}

	if err := InstallDeps(ctx, f.runner, f.installer, target); err != nil {
		return "", err
	}
	f.logger.Info("dependencies installed", "target", target, "installer", f.installer)

	return target, nil
}

// Download fetches the template archive into a temporary file and returns its
// path. The caller removes the file.
func (f *Fetcher) Download(ctx context.Context) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", errs.E(errs.Download, "download template", f.url, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", "artifactsplus-scaffold")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", errs.E(errs.Download, "download template", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.Errorf(errs.Download, "download template", f.url, "server returned status %d", resp.StatusCode)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return "", errs.Errorf(errs.Download, "download template", f.url, "response has no body")
	}

	out, err := os.CreateTemp("", "artifact-template-*.zip")
	if err != nil {
		return "", errs.E(errs.Filesystem, "download template", "", err)
	}
	keep := false
	defer func() {
		out.Close()
		if !keep {
			os.Remove(out.Name())
		}
	}()

	downloaded, err := f.copyWithProgress(out, resp.Body, resp.ContentLength)
	if err != nil {
		return "", errs.E(errs.Download, "download template", f.url, err)
	}
	if downloaded == 0 {
		return "", errs.Errorf(errs.Download, "download template", f.url, "response has no body")
	}
	if err := out.Close(); err != nil {
		return "", errs.E(errs.Filesystem, "download template", out.Name(), err)
	}

	keep = true
	f.logger.Debug("template downloaded", "url", f.url, "bytes", downloaded)
	return out.Name(), nil
}

func (f *Fetcher) copyWithProgress(dst io.Writer, src io.Reader, total int64) (int64, error) {
	var downloaded int64
	lastPercent := -1

	buf := make([]byte, 32*1024)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return downloaded, fmt.Errorf("writing download: %w", writeErr)
			}
			downloaded += int64(n)
			if f.progress != nil && total > 0 {
				percent := int(downloaded * 100 / total)
				if percent != lastPercent {
					fmt.Fprintf(f.progress, "\rDownloading template... %d%%", percent)
					lastPercent = percent
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return downloaded, fmt.Errorf("reading download stream: %w", readErr)
		}
	}
	if f.progress != nil && total > 0 {
		fmt.Fprintln(f.progress)
	}
	return downloaded, nil
}

// Extract writes the archive entries under the template prefix into target
// and returns how many files were written.
func (f *Fetcher) Extract(archivePath, target string) (int, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, errs.E(errs.Download, "open template archive", archivePath, err)
	}
	defer r.Close()

	sink := &Sink{Filter: PrefixFilter(f.prefix)}
	return sink.Extract(&r.Reader, target)
}
