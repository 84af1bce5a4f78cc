package redirects

import (
	"net/http"
	"strings"
)

// Rule maps an exact request path to a redirect destination.
type Rule struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Permanent   bool   `json:"permanent" yaml:"permanent"`
}

// StatusCode returns 308 for permanent rules and 307 otherwise.
func (r Rule) StatusCode() int {
	if r.Permanent {
		return http.StatusPermanentRedirect
	}
	return http.StatusTemporaryRedirect
}

func (r Rule) validate() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if !strings.HasPrefix(r.Source, "/") {
		return ErrRelativeSource
	}
	if strings.TrimSpace(r.Destination) == "" {
		return ErrEmptyDestination
	}
	return nil
}
