package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownEngine error if config db.gormengine names an unsupported database.
	ErrUnknownEngine = errors.New("toml config db.gormengine must be mysql, postgres or sqlite")

	// ErrAdminPasswordMissing error if an admin user is configured without a password hash.
	ErrAdminPasswordMissing = errors.New("toml config webserver.admin.passwordhash can not be empty when a username is set")

	// ErrAssetIncomplete error if an asset store lacks its name or url.
	ErrAssetIncomplete = errors.New("toml config assets entries need a name and an url")
)
