// Package main is the entry point of go-stagesetting.
// It runs the web service that serves the admin pages and the REST API for
// the runtime settings declared in etc/main.toml, and offers commands to list
// the resolved settings and to check their declarations.
package main
