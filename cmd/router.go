package main

import (
	"net/http"

	"github.com/angeloszaimis/dbtime-app/internal/handler"
)

// setupRouter serves GET (and HEAD) on the root path only. Other methods
// get 405 and other paths 404 from the mux.
func setupRouter(timeHandler *handler.TimeHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", timeHandler)

	return mux
}
