// Package identity validates and normalizes external profile identifiers
// before any analysis is spent on them.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrMalformedIdentifier means the input can never be a valid handle.
	ErrMalformedIdentifier = errors.New("identifier is malformed")
	// ErrIdentifierNotFound means the handle is well formed but no profile exists.
	ErrIdentifierNotFound = errors.New("identifier does not exist")
	// ErrValidatorUnavailable means existence could not be checked; retrying may help.
	ErrValidatorUnavailable = errors.New("identity validation service unavailable")
)

const maxHandleLen = 39

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)

// Paths on github.com whose first segment is never a user.
var reservedPaths = map[string]struct{}{
	"about": {}, "explore": {}, "features": {}, "login": {}, "logout": {},
	"marketplace": {}, "new": {}, "notifications": {}, "orgs": {}, "pricing": {},
	"search": {}, "settings": {}, "sponsors": {}, "topics": {}, "trending": {},
}

// Identity is the result of a successful existence check.
type Identity struct {
	Exists     bool   `json:"exists"`
	Canonical  string `json:"canonical_identifier"`
	ProfileURL string `json:"profile_url"`
}

// Validator confirms that an identifier resolves to a real profile.
type Validator interface {
	Validate(ctx context.Context, identifier string) (Identity, error)
}

// Normalize turns a bare handle, "@handle" or a github.com URL into a handle.
// It does not check existence.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrMalformedIdentifier)
	}

	if looksLikeURL(s) {
		handle, err := handleFromURL(s)
		if err != nil {
			return "", err
		}
		s = handle
	}
	s = strings.TrimPrefix(s, "@")

	if len(s) > maxHandleLen || !handlePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a valid GitHub username", ErrMalformedIdentifier, s)
	}
	return s, nil
}

// ProfileURL returns the public profile URL for a handle.
func ProfileURL(handle string) string {
	return "https://github.com/" + handle
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "://") || strings.Contains(lower, "github.com") || strings.Contains(s, "/")
}

func handleFromURL(raw string) (string, error) {
	s := raw
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedIdentifier, err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return "", fmt.Errorf("%w: %q is not a github.com URL", ErrMalformedIdentifier, raw)
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no username in %q", ErrMalformedIdentifier, raw)
	}
	first := segments[0]
	if _, reserved := reservedPaths[strings.ToLower(first)]; reserved {
		return "", fmt.Errorf("%w: %q is not a user profile", ErrMalformedIdentifier, raw)
	}
	return first, nil
}
