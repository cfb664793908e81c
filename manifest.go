package vhier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is a project description listing the HDL sources to scan.
// The canonical form is a .prjinfo JSON file with a "sourceFiles" array;
// YAML is accepted as well. Paths are used as written, relative paths
// resolve against the working directory.
type Manifest struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Top         string   `json:"top,omitempty" yaml:"top,omitempty"`
	SourceFiles []string `json:"sourceFiles" yaml:"sourceFiles"`
}

// LoadManifest reads a manifest from path. A missing manifest is not an
// error: it yields an empty manifest, which loads into an empty hierarchy.
// The format is chosen by extension (.yaml/.yml for YAML, anything else
// JSON first, then YAML as a fallback).
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data, path)
}

// ParseManifest decodes manifest data. The path is used only to pick the
// format by extension.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing YAML manifest: %w", err)
		}
	default:
		if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
			if yaml.Unmarshal(data, &m) != nil {
				return nil, fmt.Errorf("parsing manifest: %w", jsonErr)
			}
		}
	}
	return &m, nil
}

// Source returns a Source over the manifest's file list.
func (m *Manifest) Source(opts ...SourceOption) Source {
	return Files(m.SourceFiles, opts...)
}
