// Package releasenotes maintains the append-only release notes log kept next
// to the documentation and renders it as a Markdown page.
package releasenotes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// DateLayout is the only accepted entry date format.
const DateLayout = "2006-01-02"

// Entry is one release in the log.
type Entry struct {
	Version      string   `yaml:"version"`
	Date         string   `yaml:"date"`
	Highlights   []string `yaml:"highlights,omitempty"`
	Breaking     []string `yaml:"breaking,omitempty"`
	Enhancements []string `yaml:"enhancements,omitempty"`
	Fixes        []string `yaml:"fixes,omitempty"`
}

// Empty reports whether the entry lists no changes at all.
func (e Entry) Empty() bool {
	return len(e.Highlights)+len(e.Breaking)+len(e.Enhancements)+len(e.Fixes) == 0
}

// Log is the release notes file. Entries are kept in append order.
type Log struct {
	Entries []Entry `yaml:"entries"`
}

// Find returns the entry for version.
func (l *Log) Find(version string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.Version == version {
			return e, true
		}
	}
	return Entry{}, false
}

// Append validates e and adds it after every existing entry.
func (l *Log) Append(e Entry) error {
	e.Version = strings.TrimSpace(e.Version)
	if e.Version == "" {
		return ferrors.ValidationError("release notes entry has no version").Build()
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ferrors.ValidationError("release notes date must be YYYY-MM-DD").
			WithCause(err).
			WithContext("version", e.Version).
			WithContext("date", e.Date).
			Build()
	}
	if _, ok := l.Find(e.Version); ok {
		return ferrors.AlreadyExistsError("release notes already contain this version").
			WithContext("version", e.Version).
			Build()
	}
	l.Entries = append(l.Entries, e)
	return nil
}

// Load reads the log at path. A missing file is an empty log.
func Load(ctx context.Context, fsys afero.Fs, path string) (*Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Log{}, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read release notes").
			WithContext("path", path).
			Build()
	}
	var log Log
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "decode release notes").
			WithContext("path", path).
			Build()
	}
	seen := make(map[string]bool, len(log.Entries))
	for i, e := range log.Entries {
		if strings.TrimSpace(e.Version) == "" {
			return nil, ferrors.ValidationError(fmt.Sprintf("release notes entry %d has no version", i)).
				WithContext("path", path).
				Build()
		}
		if seen[e.Version] {
			return nil, ferrors.ValidationError("release notes contain a version twice").
				WithContext("path", path).
				WithContext("version", e.Version).
				Build()
		}
		seen[e.Version] = true
	}
	return &log, nil
}

// Save writes the log to path through a temporary file.
func Save(ctx context.Context, fsys afero.Fs, path string, log *Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(log); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode release notes").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode release notes").Build()
	}
	return writeFile(fsys, path, buf.Bytes())
}

// WritePage renders log and writes it to page.
func WritePage(ctx context.Context, fsys afero.Fs, page, title string, log *Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFile(fsys, page, []byte(RenderMarkdown(title, log)))
}

func writeFile(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return writeErr(path, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp")
	if err := afero.WriteFile(fsys, tmp, data, 0o644); err != nil {
		_ = fsys.Remove(tmp)
		return writeErr(path, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return writeErr(path, err)
	}
	return nil
}

func writeErr(path string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write release notes").
		WithContext("path", path).
		Build()
}
