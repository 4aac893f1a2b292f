package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
	"github.com/stedward-parish/directorybackend/utils"
)

// AdminParishHandler exposes back-office CRUD for parishes.
type AdminParishHandler struct {
	ParishRepo repository.ParishRepository
}

func NewAdminParishHandler(parishRepo repository.ParishRepository) *AdminParishHandler {
	return &AdminParishHandler{ParishRepo: parishRepo}
}

type ParishPayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *AdminParishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ParishPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Parish name is required")
		return
	}

	// slug derivation is an explicit pre-persistence step, not a model hook
	slug := payload.Slug
	if slug == "" {
		slug = utils.Slugify(payload.Name)
	}

	parish := &models.Parish{Name: payload.Name, Slug: slug}
	if err := h.ParishRepo.Create(parish); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, "slug_taken", "A parish with this slug already exists")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create parish")
		return
	}
	writeJSON(w, http.StatusCreated, parish)
}

func (h *AdminParishHandler) List(w http.ResponseWriter, r *http.Request) {
	parishes, err := h.ParishRepo.List(r.URL.Query().Get("q"))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list parishes")
		return
	}
	writeJSON(w, http.StatusOK, parishes)
}

func (h *AdminParishHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "parish_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	parish, err := h.ParishRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Parish not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch parish")
		return
	}
	writeJSON(w, http.StatusOK, parish)
}

func (h *AdminParishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "parish_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	parish, err := h.ParishRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Parish not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch parish")
		return
	}

	var payload ParishPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.Name != "" {
		parish.Name = payload.Name
	}
	if payload.Slug != "" {
		parish.Slug = payload.Slug
	}

	if err := h.ParishRepo.Update(parish); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, "slug_taken", "A parish with this slug already exists")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update parish")
		return
	}
	writeJSON(w, http.StatusOK, parish)
}

// Delete removes a parish and, through the cascade rules, every family and
// profile attached to it.
func (h *AdminParishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "parish_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.ParishRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Parish not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete parish")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
