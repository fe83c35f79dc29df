package versioning

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// CopyStats summarizes a tree copy.
type CopyStats struct {
	Files int   `json:"files"`
	Dirs  int   `json:"dirs"`
	Bytes int64 `json:"bytes"`
}

// CopyTree copies the directory src to dst, preserving relative paths, file
// contents, permission bits and modification times. dst must not exist and
// must not lie inside src. Symlinked files are copied by content; symlinked
// directories are refused.
//
// On error, dst may be partially written; callers copying into a staging
// location remove it.
func CopyTree(fsys afero.Fs, src, dst string) (CopyStats, error) {
	var stats CopyStats

	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := fsys.Stat(src)
	if err != nil {
		return stats, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("source %s is not a directory", src)
	}
	if within(dst, src) {
		return stats, fmt.Errorf("destination %s is inside source %s", dst, src)
	}
	if _, err := fsys.Stat(dst); err == nil {
		return stats, fmt.Errorf("destination %s: %w", dst, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return stats, fmt.Errorf("stat destination: %w", err)
	}

	err = afero.Walk(fsys, src, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if fi.Mode()&fs.ModeSymlink != 0 {
			resolved, err := fsys.Stat(p)
			if err != nil {
				return fmt.Errorf("resolve symlink %s: %w", p, err)
			}
			if resolved.IsDir() {
				return fmt.Errorf("symlinked directory %s is not supported", p)
			}
			fi = resolved
		}

		if fi.IsDir() {
			if err := fsys.MkdirAll(target, fi.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			// MkdirAll is subject to the umask.
			_ = fsys.Chmod(target, fi.Mode().Perm()|0o700)
			stats.Dirs++
			return nil
		}

		n, err := copyFile(fsys, p, target, fi)
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	return stats, err
}

func copyFile(fsys afero.Fs, src, dst string, fi fs.FileInfo) (int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dst, err)
	}

	if err := fsys.Chmod(dst, fi.Mode().Perm()); err != nil {
		return n, fmt.Errorf("chmod %s: %w", dst, err)
	}
	_ = fsys.Chtimes(dst, fi.ModTime(), fi.ModTime())
	return n, nil
}

// copyFileAtomic copies src to dst through a temporary sibling and a rename.
// dst must not exist.
func copyFileAtomic(fsys afero.Fs, src, dst string) (int64, error) {
	fi, err := fsys.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", src, err)
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("%s is a directory", src)
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", filepath.Dir(dst), err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp")
	_ = fsys.Remove(tmp)

	n, err := copyFile(fsys, src, tmp, fi)
	if err != nil {
		_ = fsys.Remove(tmp)
		return n, err
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return n, fmt.Errorf("rename %s: %w", dst, err)
	}
	return n, nil
}

// countTree reports what CopyTree would copy, without writing.
func countTree(fsys afero.Fs, root string) (CopyStats, error) {
	var stats CopyStats
	err := afero.Walk(fsys, root, func(_ string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.IsDir() {
			stats.Dirs++
			return nil
		}
		stats.Files++
		stats.Bytes += fi.Size()
		return nil
	})
	return stats, err
}

func exists(fsys afero.Fs, p string) (bool, error) {
	_, err := fsys.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// within reports whether child is parent or lies below it, compared lexically.
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
