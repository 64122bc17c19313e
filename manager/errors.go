package manager

import "errors"

var (
	// ErrUnknownStatus is returned when a container reports a status the
	// deletion logic has no policy for. No engine call is made in that case.
	ErrUnknownStatus = errors.New("unknown container status")

	// ErrUnsupportedLanguage is returned when a code-execution request names
	// a language the runner has no image and interpreter mapping for.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
