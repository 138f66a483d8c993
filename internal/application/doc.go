// Package application provides application initialization and dependency wiring.
// It resolves the executor's runtime configuration, prepares the working directory
// and creates the introspection handlers, routers and HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
