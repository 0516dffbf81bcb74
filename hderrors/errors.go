// Package hderrors defines the error kinds the image assembly engine can
// raise while importing sources, planning a FAT16 layout, or serializing a
// partition.
package hderrors

import "fmt"

// HDImageError is a named build-time failure. Most kinds are fatal; the
// exceptions are documented on the constant itself.
type HDImageError string

const (
	// ErrInvalidPath means a name could not be normalized into a legal 8.3
	// short name after uppercasing.
	ErrInvalidPath = HDImageError("malformed or non-uppercasable 8.3 name")

	// ErrNotADirectory means a path component that must be a directory
	// resolved to an existing file instead.
	ErrNotADirectory = HDImageError("path component is not a directory")

	// ErrPartitionOutOfRange means a destination drive letter exceeds the
	// number of configured partitions.
	ErrPartitionOutOfRange = HDImageError("destination partition is out of range")

	// ErrPartitionTooSmall means the planner's required sector count exceeds
	// the partition's configured capacity.
	ErrPartitionTooSmall = HDImageError("required sectors exceed partition capacity")

	// ErrFatOverflow means the cluster count exceeds the FAT16 upper bound
	// even at the smallest sectors-per-cluster value.
	ErrFatOverflow = HDImageError("cluster count exceeds FAT16 limit of 65525")

	// ErrNoProgramPath means the importer could not infer a destination path
	// for a ZIP archive with no supplied destination.
	ErrNoProgramPath = HDImageError("could not infer a destination path for archive")

	// ErrUnknownCommand means the config lexer encountered a command keyword
	// it doesn't recognize.
	ErrUnknownCommand = HDImageError("unrecognized configuration command")

	// ErrMalformedSize means a size specifier could not be parsed as a
	// decimal integer with an optional K/M suffix, or violates the 512-byte
	// alignment / 16 MiB ceiling.
	ErrMalformedSize = HDImageError("malformed partition size specifier")

	// ErrMissingDriver is informational: neither ICDBOOT.SYS nor
	// SHDRIVER.SYS was found on partition C, so the image builds but is not
	// bootable. Callers should log this and continue.
	ErrMissingDriver = HDImageError("no boot driver found on partition C; image will not be bootable")

	// ErrMissingScreenshot is informational: a discovered game has no
	// matching .NEO entry in the screenshot archive. Callers should log this
	// and continue.
	ErrMissingScreenshot = HDImageError("no screenshot found for game")
)

// Error implements the error interface.
func (e HDImageError) Error() string {
	return string(e)
}

// IsWarning reports whether this error kind is informational rather than
// fatal to the build.
func (e HDImageError) IsWarning() bool {
	return e == ErrMissingDriver || e == ErrMissingScreenshot
}

// WithMessage returns a BuildError carrying e as its kind and message as
// additional context.
func (e HDImageError) WithMessage(message string) BuildError {
	return buildError{kind: e, message: message}
}

// WrapError returns a BuildError carrying e as its kind, wrapping err.
func (e HDImageError) WrapError(err error) BuildError {
	return buildError{kind: e, message: fmt.Sprintf("%s: %s", e.Error(), err.Error()), wrapped: err}
}

// BuildError is the interface satisfied by errors produced by this package.
type BuildError interface {
	error
	Kind() HDImageError
	Unwrap() error
}

type buildError struct {
	kind    HDImageError
	message string
	wrapped error
}

func (e buildError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.kind.Error()
}

func (e buildError) Kind() HDImageError {
	return e.kind
}

func (e buildError) Unwrap() error {
	return e.wrapped
}
