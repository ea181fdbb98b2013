// Package site serves the embedded help page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded help site to mux at /. More specific API
// routes registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("GET /", http.FileServer(FS()))
}
