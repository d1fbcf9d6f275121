// Package application provides application initialization and dependency wiring.
// It encapsulates the creation of the result store, solver, metrics registry,
// handlers, routers, and HTTP server instances, keeping the main package
// focused on CLI parsing and orchestration.
package application
