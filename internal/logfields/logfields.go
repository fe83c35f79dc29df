package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyLabel      = "label"
	KeyOperation  = "operation"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "destination"
	KeyPages      = "pages"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyCommit     = "commit"
	KeyTag        = "tag"
	KeyFile       = "file"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Label(l string) slog.Attr        { return slog.String(KeyLabel, l) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Commit(sha string) slog.Attr     { return slog.String(KeyCommit, sha) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
