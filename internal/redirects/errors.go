package redirects

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is returned when a resource name matches no known loader.
	ErrResourceNotFound = errors.New("redirect resource not found")
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported redirect resource format")
	// ErrEmptySource is returned when a rule has no source path.
	ErrEmptySource = errors.New("rule source must not be empty")
	// ErrRelativeSource is returned when a rule source is not an absolute path.
	ErrRelativeSource = errors.New("rule source must start with /")
	// ErrEmptyDestination is returned when a rule has no destination.
	ErrEmptyDestination = errors.New("rule destination must not be empty")
)

// ConfigurationError reports an external redirect resource that could not be
// found or parsed. It is fatal at startup.
type ConfigurationError struct {
	Resource string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("redirect resource %q: %v", e.Resource, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
