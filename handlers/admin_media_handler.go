package handlers

import (
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"github.com/facette/natsort"

	"github.com/stedward-parish/directorybackend/media"
)

// StoredFile describes one file under the media root for the back-office
// audit listing.
type StoredFile struct {
	Path    string `json:"path"` // relative to the media root
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
}

// AdminMediaHandler lets administrators audit what photo files are actually
// held on disk, e.g. to spot orphans left behind by deleted profiles.
type AdminMediaHandler struct {
	Store *media.LocalStorage
}

func NewAdminMediaHandler(store *media.LocalStorage) *AdminMediaHandler {
	return &AdminMediaHandler{Store: store}
}

// List walks the media root and returns every stored file in natural sort
// order, so u2 sorts before u10.
func (h *AdminMediaHandler) List(w http.ResponseWriter, r *http.Request) {
	base := h.Store.BasePath()

	byPath := make(map[string]StoredFile)
	var paths []string

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		byPath[relPath] = StoredFile{Path: relPath, Size: info.Size(), ModTime: info.ModTime().Unix()}
		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		log.Printf("admin.media: failed to walk media root %s: %v", base, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list stored media")
		return
	}

	natsort.Sort(paths)

	files := make([]StoredFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, byPath[p])
	}
	writeJSON(w, http.StatusOK, files)
}
