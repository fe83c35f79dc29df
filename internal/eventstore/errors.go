package eventstore

import (
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Sentinel templates for history failures. Returned errors carry the
// underlying cause and match these with errors.Is.
var (
	// ErrOpenFailed indicates the SQLite database could not be opened.
	ErrOpenFailed = errors.HistoryError("could not open history database").Build()

	// ErrSchemaFailed indicates the schema could not be initialized.
	ErrSchemaFailed = errors.HistoryError("failed to initialize history schema").Build()

	// ErrAppendFailed indicates an event could not be recorded.
	ErrAppendFailed = errors.HistoryError("failed to append history event").Build()

	// ErrQueryFailed indicates reading events failed.
	ErrQueryFailed = errors.HistoryError("failed to query history events").Build()
)

func wrap(template *errors.ClassifiedError, cause error) error {
	return errors.HistoryError(template.Message()).WithCause(cause).Build()
}
