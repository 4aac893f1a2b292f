package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/database"
	"github.com/stedward-parish/directorybackend/repository"
)

// DirectoryHandler serves the member directory listing: every opted-in,
// approved profile in the viewer's parish, joined with family and user and
// sorted by family name, last name, first name.
type DirectoryHandler struct {
	Cfg         config.Config
	DB          *gorm.DB
	ProfileRepo repository.ProfileRepository
}

func NewDirectoryHandler(cfg config.Config, db *gorm.DB, profileRepo repository.ProfileRepository) *DirectoryHandler {
	return &DirectoryHandler{Cfg: cfg, DB: db, ProfileRepo: profileRepo}
}

// List renders the visibility-filtered profile listing. The listing is
// scoped to the requesting user's own parish; viewers without a profile fall
// back to the configured default parish.
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	parishSlug := h.Cfg.DefaultParishSlug
	viewerProfile, err := h.ProfileRepo.GetByUserID(user.ID)
	if err == nil {
		parishSlug = viewerProfile.Parish.Slug
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("directory: failed to load viewer profile for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to load directory")
		return
	}

	sqlDB, err := h.DB.DB()
	if err != nil {
		log.Printf("directory: failed to get sql.DB handle: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to load directory")
		return
	}

	entries, err := database.ListDirectory(sqlDB, parishSlug)
	if err != nil {
		log.Printf("directory: listing query failed for parish '%s': %v", parishSlug, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to load directory")
		return
	}
	if entries == nil {
		entries = []database.DirectoryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"parish_slug": parishSlug,
		"profiles":    entries,
	})
}
