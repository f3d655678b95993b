// Package fault holds the error taxonomy shared by the radar packages.
//
// Packages wrap these sentinels with %w so callers can classify any error
// with errors.Is without importing the package that produced it.
package fault

import "errors"

var (
	// ErrConfiguration marks a fatal load-time problem: an unresolved field
	// selection, an unknown unit, a malformed config file.
	ErrConfiguration = errors.New("configuration error")

	// ErrShapeContract marks a shape that breaks the kind/point-count/style
	// contract.
	ErrShapeContract = errors.New("shape contract violation")

	// ErrBackendUnavailable marks a rendering engine that is known but not
	// built into this binary.
	ErrBackendUnavailable = errors.New("rendering backend unavailable")
)

// IsFatal reports whether err should abort startup.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrBackendUnavailable)
}
