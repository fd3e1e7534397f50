// Package errors provides the classified error type used across doxic.
//
// Every failure that can stop a generation run is reported as a ClassifiedError
// carrying a category (config, filesystem, parse, ...) and a severity. The CLI
// adapter turns categories into process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "failed to read source").
//		WithSource(path).
//		Build()
package errors
