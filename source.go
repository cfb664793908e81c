package vhier

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions recognized as HDL source files.
var DefaultExtensions = []string{".v", ".sv", ".svh", ".vhdl", ".vhd"}

// Source supplies HDL files to scan.
type Source interface {
	// ListFiles returns the source file paths in scan order.
	ListFiles() ([]string, error)

	// Open opens one of the listed files for reading.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Files Source (explicit ordered list) ---

type filesSource struct {
	paths  []string
	config sourceConfig
}

// Files creates a Source over an explicit ordered list of file paths, as
// listed in a project manifest. Entries without a recognized HDL extension
// are ignored without error; missing files are diagnosed at read time, not
// here, so one bad entry never aborts the run.
func Files(paths []string, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &filesSource{paths: paths, config: cfg}
}

func (s *filesSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	files := make([]string, 0, len(s.paths))
	for _, path := range s.paths {
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
	}
	return files, nil
}

func (s *filesSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- Dir Source (single directory, no recursion) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source over the HDL files of a single directory.
func Dir(path string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}, nil
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.path, entry.Name())
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
	}
	return files, nil
}

func (s *dirSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- DirTree Source (recursive directory) ---

type treeSource struct {
	root   string
	config sourceConfig
}

// DirTree creates a Source that recursively walks a directory tree for HDL
// files. Files are listed in deterministic walk order.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &treeSource{root: root, config: cfg}, nil
}

func (s *treeSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *treeSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- FS Source (for embed.FS, testing, http filesystems) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes reported paths for diagnostics.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{name: name, fsys: fsys, config: cfg}
}

func (s *fsSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, s.name+":"+path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *fsSource) Open(path string) (io.ReadCloser, error) {
	inner, ok := strings.CutPrefix(path, s.name+":")
	if !ok {
		return nil, fs.ErrNotExist
	}
	return s.fsys.Open(inner)
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one. Files are listed in source
// order; Open tries each source until one succeeds.
func Multi(sources ...Source) Source {
	return &multiSource{sources: slices.Clone(sources)}
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	return files, nil
}

func (s *multiSource) Open(path string) (io.ReadCloser, error) {
	var lastErr error = fs.ErrNotExist
	for _, src := range s.sources {
		r, err := src.Open(path)
		if err == nil {
			return r, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
