// Package site serves the embedded standings page.
package site

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register attaches the embedded page at / to r.
func Register(r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Handle("/", http.FileServer(FS())).Methods(http.MethodGet)
}
