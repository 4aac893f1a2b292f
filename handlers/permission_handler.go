package handlers

import (
	"net/http"

	"github.com/stedward-parish/directorybackend/permissions"
)

// ListPermissions returns the static permission registry so the admin UI can
// render grant checkboxes without hard-coding keys.
func ListPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}
