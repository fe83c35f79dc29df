package versioning

import (
	stderrors "errors"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Error templates. Returned errors carry label context and a cause and
// match these with errors.Is.
var (
	// ErrDuplicateLabel rejects a cut whose label is already in the manifest.
	// Nothing is copied.
	ErrDuplicateLabel = errors.AlreadyExistsError("version label already exists").Build()

	// ErrUnregisteredSnapshot rejects a cut when snapshot content for the
	// label is already on disk but not in the manifest.
	ErrUnregisteredSnapshot = errors.AlreadyExistsError("snapshot content exists but is not registered").Build()

	// ErrCopyFailure reports an I/O error while copying pages or the sidebar.
	// Partial output is removed and the manifest is untouched.
	ErrCopyFailure = errors.FileSystemError("failed to copy documentation snapshot").Build()

	// ErrManifestWriteFailure reports that the snapshot was copied but the
	// label could not be appended to the manifest. Re-running register
	// repairs it.
	ErrManifestWriteFailure = errors.ManifestError("snapshot copied but version manifest was not updated").Build()

	// ErrInvalidLabel rejects labels that cannot name a snapshot.
	ErrInvalidLabel = errors.ValidationError("invalid version label").Build()

	// ErrSnapshotNotFound reports a missing snapshot for register or remove.
	ErrSnapshotNotFound = errors.NotFoundError("snapshot not found").Build()
)

// IsDuplicateLabel reports whether err is a DuplicateLabel rejection.
func IsDuplicateLabel(err error) bool { return stderrors.Is(err, ErrDuplicateLabel) }

// IsCopyFailure reports whether err is a CopyFailure.
func IsCopyFailure(err error) bool { return stderrors.Is(err, ErrCopyFailure) }

// IsManifestWriteFailure reports whether err is a ManifestWriteFailure.
func IsManifestWriteFailure(err error) bool { return stderrors.Is(err, ErrManifestWriteFailure) }

func duplicateLabel(label string) error {
	return errors.AlreadyExistsError(ErrDuplicateLabel.Message()).
		WithContext("label", label).
		WithContext("hint", "choose a new label or run: docsnap remove "+label+" --yes").
		Build()
}

func unregisteredSnapshot(label, path string) error {
	return errors.AlreadyExistsError(ErrUnregisteredSnapshot.Message()).
		WithContext("label", label).
		WithContext("path", path).
		WithContext("hint", "register it with: docsnap register "+label+" (or delete it manually)").
		Build()
}

func copyFailure(label string, cause error) error {
	return errors.FileSystemError(ErrCopyFailure.Message()).
		WithCause(cause).
		WithContext("label", label).
		WithContext("hint", "fix the underlying I/O problem and re-run the cut").
		Rerunnable().
		Build()
}

func manifestWriteFailure(label, snapshotDir string, cause error) error {
	return errors.ManifestError(ErrManifestWriteFailure.Message()).
		WithCause(cause).
		WithContext("label", label).
		WithContext("path", snapshotDir).
		WithContext("hint", "run: docsnap register "+label).
		Rerunnable().
		Build()
}

func snapshotNotFound(label, path string) error {
	return errors.NotFoundError(ErrSnapshotNotFound.Message()).
		WithContext("label", label).
		WithContext("path", path).
		Build()
}
