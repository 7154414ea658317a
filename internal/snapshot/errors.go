package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSetting is wrapped by lookups of names that are not registered.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrReadOnly is returned by every mutation of a snapshot.
	ErrReadOnly = errors.New("settings snapshot is read only")
)

// KeyError is returned when looking up a name that is not registered.
type KeyError struct {
	Name string
	Err  error
}

func (e *KeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("setting %q: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("setting %q is not registered", e.Name)
}

// Unwrap exposes ErrUnknownSetting and the underlying cause.
func (e *KeyError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnknownSetting, e.Err}
	}

	return []error{ErrUnknownSetting}
}

// AttributeError is returned by attribute style access to a missing setting.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return e.Name + " not found"
}

// Unwrap exposes ErrUnknownSetting.
func (e *AttributeError) Unwrap() error {
	return ErrUnknownSetting
}
