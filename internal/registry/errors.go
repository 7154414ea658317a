package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned when registering a name twice.
	ErrAlreadyRegistered = errors.New("setting already registered")

	// ErrNotRegistered is returned for names the registry does not know.
	ErrNotRegistered = errors.New("setting not registered")

	// ErrInvalidName is returned for names that are not upper case identifiers.
	ErrInvalidName = errors.New("invalid setting name")

	// ErrNotSchema is returned when a registration carries no schema.
	ErrNotSchema = errors.New("not a schema")

	// ErrNotDictLike is returned when a default value is not a key/value mapping.
	ErrNotDictLike = errors.New("default is not a mapping")

	// ErrInvalidDeclaration is returned for declarations of an unsupported shape.
	ErrInvalidDeclaration = errors.New("invalid setting declaration")

	// ErrUnknownSchema is returned when a declaration references a missing schema.
	ErrUnknownSchema = errors.New("unknown schema reference")
)
