package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// FileStore keeps the manifest as a JSON array of strings:
//
//	[
//	  "1.0.0",
//	  "1.1.0"
//	]
//
// The site generator reads this file directly, so the shape must not change.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a store for the manifest at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the manifest location.
func (s *FileStore) Path() string { return s.path }

// Load reads the manifest. A missing file is an empty manifest.
func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "read version manifest").
			WithContext("path", s.path).
			Build()
	}
	return decode(data, s.path, true)
}

// LoadRaw reads the manifest without rejecting duplicate labels, so that
// verification can report them instead of failing.
func (s *FileStore) LoadRaw(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "read version manifest").
			WithContext("path", s.path).
			Build()
	}
	return decode(data, s.path, false)
}

func decode(data []byte, path string, strict bool) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "version manifest is not a JSON array of strings").
			WithContext("path", path).
			Build()
	}
	if labels == nil {
		labels = []string{}
	}
	if dups := Duplicates(labels); strict && len(dups) > 0 {
		return nil, ferrors.ManifestError("version manifest contains duplicate labels").
			WithContext("path", path).
			WithContext("labels", strings.Join(dups, ",")).
			Build()
	}
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, ferrors.ManifestError(fmt.Sprintf("version manifest entry %d is empty", i)).
				WithContext("path", path).
				Build()
		}
	}
	return labels, nil
}

// Append adds label after all existing entries unless it is already present.
func (s *FileStore) Append(ctx context.Context, label string) (bool, error) {
	labels, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if Contains(labels, label) {
		return false, nil
	}
	if err := s.write(append(labels, label)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes label from the manifest, keeping the order of the rest.
func (s *FileStore) Remove(ctx context.Context, label string) (bool, error) {
	labels, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	idx := slices.Index(labels, label)
	if idx < 0 {
		return false, nil
	}
	if err := s.write(slices.Delete(labels, idx, idx+1)); err != nil {
		return false, err
	}
	return true, nil
}

// write replaces the manifest through a temp file and rename so a reader
// never observes a half-written array.
func (s *FileStore) write(labels []string) error {
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode version manifest").Build()
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return s.writeErr(err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+".tmp")
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return s.writeErr(err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return s.writeErr(err)
	}
	return nil
}

func (s *FileStore) writeErr(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryManifest, "write version manifest").
		WithContext("path", s.path).
		Build()
}
