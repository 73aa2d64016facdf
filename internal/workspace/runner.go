// Package workspace discovers C# files and formats them concurrently.
package workspace

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/format"
	"csfmt/internal/slogutil"
	"csfmt/internal/syntax"
)

// Parser produces syntax trees from source text.
type Parser interface {
	Parse(ctx context.Context, source []byte) (*syntax.Tree, error)
}

// Mode selects what a run does with formatted output.
type Mode int

const (
	// ModeWrite rewrites files that are not in canonical form.
	ModeWrite Mode = iota
	// ModeCheck reports files that are not in canonical form.
	ModeCheck
	// ModeList lists files that are not in canonical form.
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeList:
		return "list"
	default:
		return "unknown"
	}
}

// Options configures a Runner.
type Options struct {
	Mode Mode
	// Include lists the file extensions picked up when walking directories.
	Include []string
	// Exclude lists directory names skipped when walking.
	Exclude []string
	// Jobs limits concurrent files; zero means GOMAXPROCS.
	Jobs int
}

// Runner formats sets of files.
type Runner struct {
	parser    Parser
	formatter *format.Formatter
	opts      Options
	fs        afero.Fs
	logger    *slog.Logger
}

// NewRunner creates a new Runner. A nil logger discards output.
func NewRunner(parser Parser, formatter *format.Formatter, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if len(opts.Include) == 0 {
		opts.Include = []string{".cs"}
	}
	return &Runner{
		parser:    parser,
		formatter: formatter,
		opts:      opts,
		fs:        afero.NewOsFs(),
		logger:    logger,
	}
}

// SetFS sets the filesystem for testing.
func (r *Runner) SetFS(fs afero.Fs) {
	r.fs = fs
}

// FormatSource parses and formats a single source text. A leading UTF-8 byte
// order mark is kept in the output.
func (r *Runner) FormatSource(ctx context.Context, source []byte) (string, error) {
	body, hasBOM := bytes.CutPrefix(source, utf8BOM)
	tree, err := r.parser.Parse(ctx, body)
	if err != nil {
		if _, ok := fmterrors.From(err); ok {
			return "", err
		}
		return "", fmterrors.New(fmterrors.InternalError, "parser failed", err)
	}
	out, err := r.formatter.Format(tree)
	if err != nil || !hasBOM {
		return out, err
	}
	return string(utf8BOM) + out, nil
}

// utf8BOM is kept on files that start with it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Discover expands paths into the sorted, de-duplicated list of files to
// format. Files named explicitly are kept whatever their extension.
func (r *Runner) Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := r.fs.Stat(root)
		if err != nil {
			return nil, fmterrors.New(fmterrors.IOFailure, "cannot stat path", err).WithPath(root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = afero.Walk(r.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && r.excluded(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if r.included(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmterrors.New(fmterrors.IOFailure, "cannot walk directory", err).WithPath(root)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (r *Runner) excluded(name string) bool {
	for _, ex := range r.opts.Exclude {
		if strings.EqualFold(name, ex) {
			return true
		}
	}
	return false
}

func (r *Runner) included(path string) bool {
	ext := filepath.Ext(path)
	for _, inc := range r.opts.Include {
		if strings.EqualFold(ext, inc) {
			return true
		}
	}
	return false
}

// Run formats every file under paths. Per-file failures are recorded in the
// report; the returned error is reserved for discovery failures and
// cancellation.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		Mode:      r.opts.Mode.String(),
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With("run", report.RunID)

	files, err := r.Discover(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", "count", len(files), "mode", report.Mode)

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes its own index.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.processFile(gctx, logger, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Files = results
	report.DurationMs = time.Since(report.StartedAt).Milliseconds()
	report.summarize()

	logger.Info("run complete",
		"files", report.Summary.Files,
		"changed", report.Summary.Changed,
		"failed", report.Summary.Failed,
		"durationMs", report.DurationMs)
	return report, nil
}

func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, path string) FileResult {
	res := FileResult{Path: filepath.ToSlash(path)}

	src, err := afero.ReadFile(r.fs, path)
	if err != nil {
		res.setErr(fmterrors.New(fmterrors.IOFailure, "cannot read file", err).WithPath(path))
		logger.Warn("read failed", "path", res.Path, "error", err)
		return res
	}

	out, err := r.FormatSource(ctx, src)
	if err != nil {
		res.setErr(withPath(err, path))
		logger.Warn("format failed", "path", res.Path, "error", err)
		return res
	}

	res.Changed = !bytes.Equal(src, []byte(out))
	if !res.Changed {
		logger.Debug("already formatted", "path", res.Path)
		return res
	}

	switch r.opts.Mode {
	case ModeWrite:
		if err := r.writeFile(path, out); err != nil {
			res.setErr(err)
			logger.Warn("write failed", "path", res.Path, "error", err)
			return res
		}
		res.Written = true
		logger.Debug("formatted", "path", res.Path)
	case ModeCheck:
		res.setErr(fmterrors.New(fmterrors.Unformatted, "file is not formatted", nil).WithPath(path))
		logger.Debug("not formatted", "path", res.Path)
	case ModeList:
		logger.Debug("would format", "path", res.Path)
	}
	return res
}

// writeFile replaces path with content, keeping its permissions.
func (r *Runner) writeFile(path, content string) error {
	perm := os.FileMode(0o644)
	if info, err := r.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(r.fs, path, []byte(content), perm); err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot write file", err).WithPath(path)
	}
	return nil
}

func withPath(err error, path string) error {
	if fe, ok := fmterrors.From(err); ok {
		return fe.WithPath(path)
	}
	return fmterrors.New(fmterrors.InternalError, "format failed", err).WithPath(path)
}
