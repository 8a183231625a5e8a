// Package fsmap enumerates a directory subtree under fixed size and time bounds.
//
// Information Hiding:
// - Path resolution and workspace containment rules
// - Breadth-first queue management
// - Cooperative deadline and entry-cap checks
//
// A single directory read is never interrupted; the deadline is only checked
// between directories and between entries.
package fsmap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/richinex/multimodel/logging"
)

const (
	// MaxDepth is the deepest level a caller may request.
	MaxDepth = 6
	// DefaultDepth is used when a caller does not choose a depth.
	DefaultDepth = 2
	// DefaultMaxEntries caps the number of entries in a result.
	DefaultMaxEntries = 8000
	// DefaultTimeout bounds the wall time of a single scan.
	DefaultTimeout = 2 * time.Second
)

var (
	// ErrInvalidDepth is returned when the requested depth is outside [0, MaxDepth].
	ErrInvalidDepth = errors.New("invalid depth")
	// ErrPathNotFound is returned when the scan root does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrAccessDenied is returned when a relative path escapes the workspace.
	ErrAccessDenied = errors.New("access denied")
)

// scanError carries a user-facing message and a sentinel kind for errors.Is.
type scanError struct {
	kind error
	msg  string
}

func newError(kind error, format string, args ...any) error {
	return &scanError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *scanError) Error() string { return e.msg }

func (e *scanError) Unwrap() error { return e.kind }

// Request describes one scan.
type Request struct {
	Path           string
	Depth          int
	FollowSymlinks bool
}

// Entry is one discovered file or directory. Depth is the 1-based distance
// from the scan root.
type Entry struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDir     bool   `json:"is_dir"`
	IsSymlink bool   `json:"is_symlink"`
	SizeBytes int64  `json:"size_bytes"`
	Depth     int    `json:"depth"`
}

// Result is the outcome of a scan. Entries are in discovery order.
type Result struct {
	Root      string  `json:"root"`
	Entries   []Entry `json:"entries"`
	Truncated bool    `json:"truncated,omitempty"`
	TimedOut  bool    `json:"timed_out,omitempty"`
}

// Enumerator runs bounded breadth-first scans. It holds no per-scan state and
// is safe for concurrent use.
type Enumerator struct {
	workspace  string
	maxEntries int
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithWorkspace sets the containment root for relative paths.
// The default is the process working directory at scan time.
func WithWorkspace(dir string) Option {
	return func(e *Enumerator) { e.workspace = dir }
}

// WithMaxEntries overrides the entry cap.
func WithMaxEntries(n int) Option {
	return func(e *Enumerator) { e.maxEntries = n }
}

// WithTimeout overrides the scan deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Enumerator) { e.timeout = d }
}

// WithLogger sets the logger used for skipped-entry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enumerator) { e.logger = logger }
}

// WithClock replaces time.Now, for deterministic timeout tests.
func WithClock(now func() time.Time) Option {
	return func(e *Enumerator) { e.now = now }
}

// New creates an Enumerator with the default limits.
func New(opts ...Option) *Enumerator {
	e := &Enumerator{
		maxEntries: DefaultMaxEntries,
		timeout:    DefaultTimeout,
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Map validates the request, resolves the root and walks it.
func (e *Enumerator) Map(req Request) (Result, error) {
	if req.Depth < 0 || req.Depth > MaxDepth {
		return Result{}, newError(ErrInvalidDepth, "Depth must be between 0 and %d (requested: %d)", MaxDepth, req.Depth)
	}

	root, err := e.resolveRoot(req.Path)
	if err != nil {
		return Result{}, err
	}

	return e.walk(root, req), nil
}

func (e *Enumerator) resolveRoot(path string) (string, error) {
	workspace := e.workspace
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine workspace: %w", err)
		}
		workspace = wd
	}
	workspaceCanonical, err := canonicalize(workspace)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize workspace: %w", err)
	}

	isAbs := filepath.IsAbs(path)
	target := path
	if !isAbs {
		target = filepath.Join(workspace, path)
	}

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return "", newError(ErrPathNotFound, "Path does not exist: %s", target)
		}
		return "", fmt.Errorf("failed to stat %s: %w", target, err)
	}

	targetCanonical, err := canonicalize(target)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize path: %w", err)
	}

	// Absolute paths are an explicit opt-out of containment.
	if !isAbs && !within(workspaceCanonical, targetCanonical) {
		return "", newError(ErrAccessDenied, "Access denied: path '%s' is outside workspace root '%s'",
			targetCanonical, workspaceCanonical)
	}

	return targetCanonical, nil
}

type queued struct {
	path  string
	depth int
}

func (e *Enumerator) walk(root string, req Request) Result {
	start := e.now()
	result := Result{Root: root, Entries: []Entry{}}
	queue := []queued{{path: root, depth: 0}}

	// stop reports whether a bound has been hit, setting the matching flag.
	stop := func() bool {
		if e.now().Sub(start) > e.timeout {
			result.TimedOut = true
			return true
		}
		if len(result.Entries) >= e.maxEntries {
			result.Truncated = true
			return true
		}
		return false
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if stop() {
			break
		}
		if current.depth > req.Depth {
			continue
		}

		children, err := readDirUnsorted(current.path)
		if err != nil {
			e.logger.Warn("failed to read directory", "path", current.path, "error", err)
			if len(children) == 0 {
				continue
			}
		}

		for _, child := range children {
			if stop() {
				break
			}

			name := child.Name()
			if skipName(name) {
				continue
			}

			childPath := filepath.Join(current.path, name)
			entry, err := e.describe(childPath, name, current.depth+1)
			if err != nil {
				e.logger.Warn("failed to read metadata", "path", childPath, "error", err)
				continue
			}
			result.Entries = append(result.Entries, entry)

			if entry.IsDir && current.depth+1 <= req.Depth && (!entry.IsSymlink || req.FollowSymlinks) {
				queue = append(queue, queued{path: childPath, depth: current.depth + 1})
			}
		}

		if result.Truncated || result.TimedOut {
			break
		}
	}

	return result
}

// describe builds an Entry. Symlinks are detected with Lstat; directory-ness
// and size follow the link target when it resolves.
func (e *Enumerator) describe(path, name string, depth int) (Entry, error) {
	linfo, err := os.Lstat(path)
	if err != nil {
		return Entry{}, err
	}

	info := linfo
	isSymlink := linfo.Mode()&os.ModeSymlink != 0
	if isSymlink {
		if target, err := os.Stat(path); err == nil {
			info = target
		} else {
			e.logger.Debug("dangling symlink", "path", path, "error", err)
		}
	}

	size := info.Size()
	if info.IsDir() {
		size = 0
	}

	return Entry{
		Name:      name,
		Path:      path,
		IsDir:     info.IsDir(),
		IsSymlink: isSymlink,
		SizeBytes: size,
		Depth:     depth,
	}, nil
}

// readDirUnsorted returns directory entries in the order the OS reports them.
// os.ReadDir would sort by name.
func readDirUnsorted(dir string) ([]os.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == ".git"
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within reports whether target equals root or lies beneath it, comparing
// whole path components.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
