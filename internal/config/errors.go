package config

import (
	"errors"
	"fmt"
)

// ErrNoReleasever is returned when the release version cannot be
// detected inside the active root context and no explicit releasever
// was configured.
var ErrNoReleasever = errors.New("release version not detectable")

// UnknownSettingError is returned when a setting name outside the
// recognized set is resolved or supplied by a configuration source.
type UnknownSettingError struct {
	Name string
}

func (e *UnknownSettingError) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Name)
}

// AmbiguousRootError is returned when the configured installroot cannot
// serve as a root context. Silently falling back to the host root would
// resolve every root-relative setting against the wrong filesystem, so
// the error is surfaced instead.
type AmbiguousRootError struct {
	Value  string
	Reason string
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("installroot %q: %s", e.Value, e.Reason)
}
