package config

import (
	"time"

	"github.com/GoStageSetting/GoStageSetting/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Snapshot  Snapshot
	Assets    []Asset
	// Settings declares the runtime settings, see Declarations.
	Settings map[string]any
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	PageSize       int     // settings per page in the admin listing
	Admin          Admin   // credentials protecting the admin pages and the API
	Session        Session // session settings
}

// Admin credentials. Without a username the admin is not protected.
type Admin struct {
	Username     string
	PasswordHash string // argon2id hash, see `go-stagesetting password hash`
}

// Snapshot controls how requests resolve settings.
type Snapshot struct {
	WriteBack bool // store values completed with keys added to their default
}

// Asset describes a file tree whose paths can be offered as setting choices.
type Asset struct {
	Name    string
	Root    string   // directory on disk
	URL     string   // base url the files are published under
	Aliases []string // other strings that refer to the store
}
