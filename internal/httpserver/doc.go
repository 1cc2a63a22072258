// Package httpserver wraps net/http's server with address validation.
package httpserver
