package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/stedward-parish/directorybackend/media"
)

// MediaServer streams files from the media root to authenticated users. The
// route must sit behind AuthMiddleware so authentication is rejected before
// any path resolution happens.
//
// Every failure (traversal outside the root, a missing file, a directory
// target) produces the same 404 so the response never reveals whether a
// path exists.
func MediaServer(store media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, "/media/")
		if relativePath == "" {
			http.NotFound(w, r)
			return
		}

		fullPath, err := store.GetFullPath(relativePath)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, fullPath)
	}
}
