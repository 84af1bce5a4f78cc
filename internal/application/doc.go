// Package application provides application initialization and dependency wiring.
// It builds the redirect table once at startup, assembles the root router
// (prefix redirects, API, metrics, static origin) and the HTTP server, keeping
// the main package focused on CLI parsing and orchestration.
package application
