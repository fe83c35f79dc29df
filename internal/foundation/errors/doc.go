// Package errors provides the classified error primitives used across docsnap.
//
// A ClassifiedError carries a category, a severity, a retry strategy and a
// small structured context map. Commands never inspect error strings: they ask
// for the category, and the CLI adapter turns that category into an exit code.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "copy snapshot pages").
//		WithContext("label", label).
//		WithContext("path", dst).
//		Build()
package errors
