package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrNotCompilable is returned when a factory cannot be reduced to a persisted handle.
	ErrNotCompilable = zerr.New("factory is not compilable")

	// ErrStorageUnwritable is returned when the artifact path or its directory is not writable.
	ErrStorageUnwritable = zerr.New("cache storage is not writable")

	// ErrExtractionFailed is returned when the source of a closure cannot be extracted.
	ErrExtractionFailed = zerr.New("failed to extract closure source")

	// ErrCompileInterrupted is returned when compilation is canceled before every factory is classified.
	ErrCompileInterrupted = zerr.New("compilation interrupted")

	// ErrUnboundFactory is returned when a factory entry has no live callable.
	ErrUnboundFactory = zerr.New("factory has no live callable")

	// ErrArtifactNotFound is returned when the cache artifact does not exist.
	ErrArtifactNotFound = zerr.New("cache artifact not found")

	// ErrArtifactReadFailed is returned when the cache artifact cannot be read.
	ErrArtifactReadFailed = zerr.New("failed to read cache artifact")

	// ErrArtifactDecodeFailed is returned when the cache artifact cannot be decoded.
	ErrArtifactDecodeFailed = zerr.New("failed to decode cache artifact")

	// ErrArtifactCorrupt is returned when the artifact checksum or structure does not match.
	ErrArtifactCorrupt = zerr.New("cache artifact is corrupt")

	// ErrArtifactVersionMismatch is returned when the artifact was written by an incompatible format version.
	ErrArtifactVersionMismatch = zerr.New("unsupported cache artifact version")

	// ErrArtifactEncodeFailed is returned when compiled fragments cannot be encoded.
	ErrArtifactEncodeFailed = zerr.New("failed to encode cache artifact")

	// ErrArtifactWriteFailed is returned when the cache artifact cannot be written.
	ErrArtifactWriteFailed = zerr.New("failed to write cache artifact")

	// ErrArtifactRemoveFailed is returned when the cache artifact cannot be removed.
	ErrArtifactRemoveFailed = zerr.New("failed to remove cache artifact")

	// ErrArtifactInvalid is returned when a rendered artifact fails verification before commit.
	ErrArtifactInvalid = zerr.New("rendered cache artifact failed verification")

	// ErrTempFileCreateFailed is returned when the temporary artifact file cannot be created.
	ErrTempFileCreateFailed = zerr.New("failed to create temporary artifact file")

	// ErrSymbolNotFound is returned when a symbol handle is not registered.
	ErrSymbolNotFound = zerr.New("symbol not registered")

	// ErrSymbolConflict is returned when a symbol is registered twice with different callables.
	ErrSymbolConflict = zerr.New("symbol already registered")

	// ErrEvalFailed is returned when a source handle cannot be evaluated.
	ErrEvalFailed = zerr.New("failed to evaluate factory source")

	// ErrInvalidHandle is returned when a fragment carries an unknown or empty handle.
	ErrInvalidHandle = zerr.New("invalid factory handle")

	// ErrFactoryMapFailed is returned when the delegate factory map fails.
	ErrFactoryMapFailed = zerr.New("failed to query factory map")

	// ErrDuplicateFactoryID is returned when two definitions share an id.
	ErrDuplicateFactoryID = zerr.New("duplicate factory id")

	// ErrEmptyFactoryID is returned when a definition has an empty id.
	ErrEmptyFactoryID = zerr.New("factory id must not be empty")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find facto.yaml")

	// ErrInvalidManifestEntry is returned when a factory entry in facto.yaml is malformed.
	ErrInvalidManifestEntry = zerr.New("invalid factory entry")

	// ErrWorkspaceCreateFailed is returned when the .facto directory cannot be created.
	ErrWorkspaceCreateFailed = zerr.New("failed to create workspace directory")
)

// NotCompilableError reports a factory that cannot be persisted. It always
// names the offending id.
type NotCompilableError struct {
	ID       string
	Kind     Kind
	Reason   string
	Captures []string
	Cause    error
}

func (e *NotCompilableError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNotCompilable.Error())
	b.WriteString(": ")
	b.WriteString(strconv.Quote(e.ID))
	if e.Kind != 0 {
		b.WriteString(" (")
		b.WriteString(e.Kind.String())
		b.WriteString(")")
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Captures) > 0 {
		b.WriteString(" [captures: ")
		b.WriteString(strings.Join(e.Captures, ", "))
		b.WriteString("]")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the extraction failure, if any.
func (e *NotCompilableError) Unwrap() error { return e.Cause }

// Is matches ErrNotCompilable.
func (e *NotCompilableError) Is(target error) bool { return target == ErrNotCompilable }

// WithID returns a copy of e attributed to id.
func (e *NotCompilableError) WithID(id string) *NotCompilableError {
	c := *e
	c.ID = id
	return &c
}

// StorageUnwritableError reports a path that failed the writability check.
type StorageUnwritableError struct {
	Path  string
	Cause error
}

func (e *StorageUnwritableError) Error() string {
	msg := ErrStorageUnwritable.Error() + ": " + e.Path
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying IO error.
func (e *StorageUnwritableError) Unwrap() error { return e.Cause }

// Is matches ErrStorageUnwritable.
func (e *StorageUnwritableError) Is(target error) bool { return target == ErrStorageUnwritable }

// NewUnboundError reports a factory entry that was invoked without a callable.
func NewUnboundError(ref string) error {
	return zerr.With(ErrUnboundFactory, "factory", ref)
}
