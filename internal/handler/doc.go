// Package handler implements the HTTP handler for the root route. It asks
// the database for its current time and renders it as plain text, or renders
// the failure message with a 500.
package handler
