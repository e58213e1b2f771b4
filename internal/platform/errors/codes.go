// Package errors provides coded errors for the icon fetch run.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Shortcut errors
	CodeShortcutDuplicateKey        Code = "SHORTCUT_DUPLICATE_KEY"
	CodeShortcutDuplicateIcon       Code = "SHORTCUT_DUPLICATE_ICON"
	CodeShortcutUnrecognizedIconDir Code = "SHORTCUT_UNRECOGNIZED_ICON_DIR"
	CodeShortcutIncomplete          Code = "SHORTCUT_INCOMPLETE"
	CodeShortcutInvalidFilename     Code = "SHORTCUT_INVALID_FILENAME"
	CodeShortcutRead                Code = "SHORTCUT_READ"

	// Environment errors
	CodeIconDirMissing      Code = "ICON_DIR_MISSING"
	CodeUnsupportedPlatform Code = "UNSUPPORTED_PLATFORM"
	CodeConfigInvalid       Code = "CONFIG_INVALID"
	CodeIconFetchFailed     Code = "ICON_FETCH_FAILED"
	CodeIconWriteFailed     Code = "ICON_WRITE_FAILED"

	// Run control
	CodeInterrupted Code = "INTERRUPTED"
)

// Category groups codes by how the run reports them.
type Category string

const (
	CategoryDataIntegrity Category = "data-integrity"
	CategoryEnvironment   Category = "environment"
	CategoryInterrupt     Category = "interrupt"
	CategoryUnknown       Category = "unknown"
)

// Category maps a code to its reporting category.
func (c Code) Category() Category {
	switch c {
	case CodeShortcutDuplicateKey,
		CodeShortcutDuplicateIcon,
		CodeShortcutUnrecognizedIconDir,
		CodeShortcutIncomplete,
		CodeShortcutInvalidFilename,
		CodeShortcutRead:
		return CategoryDataIntegrity

	case CodeIconDirMissing,
		CodeUnsupportedPlatform,
		CodeConfigInvalid,
		CodeIconFetchFailed,
		CodeIconWriteFailed:
		return CategoryEnvironment

	case CodeInterrupted:
		return CategoryInterrupt

	default:
		return CategoryUnknown
	}
}
