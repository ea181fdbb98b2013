package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/board.html
var apiStaticFS embed.FS

// boardFS exposes a sub-filesystem rooted at static/.
var boardFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(apiStaticFS, "static")
	if err != nil {
		return apiStaticFS
	}
	return sub
}()

// boardHandler serves the live grid page.
type boardHandler struct{}

func newBoardHandler() *boardHandler {
	return &boardHandler{}
}

// HandleBoard handles GET /board requests. The page takes ?session=<id>,
// renders the grid from GET /sessions/{id}, follows the events stream and
// posts a cycle when a cell is clicked.
func (h *boardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, boardFS, "board.html")
}
