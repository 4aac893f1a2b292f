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

// AdminFamilyHandler exposes back-office CRUD for families.
type AdminFamilyHandler struct {
	FamilyRepo repository.FamilyRepository
	ParishRepo repository.ParishRepository
}

func NewAdminFamilyHandler(familyRepo repository.FamilyRepository, parishRepo repository.ParishRepository) *AdminFamilyHandler {
	return &AdminFamilyHandler{FamilyRepo: familyRepo, ParishRepo: parishRepo}
}

type FamilyPayload struct {
	ParishID uint   `json:"parish_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

func (h *AdminFamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload FamilyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" || payload.ParishID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Family name and parish_id are required")
		return
	}

	if _, err := h.ParishRepo.GetByID(payload.ParishID); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parish", "Parish does not exist")
		return
	}

	slug := payload.Slug
	if slug == "" {
		slug = utils.Slugify(payload.Name)
	}

	family := &models.Family{ParishID: payload.ParishID, Name: payload.Name, Slug: slug}
	if err := h.FamilyRepo.Create(family); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, "slug_taken", "A family with this slug already exists in the parish")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create family")
		return
	}
	writeJSON(w, http.StatusCreated, family)
}

func (h *AdminFamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	parishID, err := optionalUintQuery(r, "parish_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	families, err := h.FamilyRepo.List(repository.FamilyFilter{
		NameQuery: r.URL.Query().Get("q"),
		ParishID:  parishID,
	})
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list families")
		return
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *AdminFamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "family_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	family, err := h.FamilyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Family not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch family")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *AdminFamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "family_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	family, err := h.FamilyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Family not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch family")
		return
	}

	var payload FamilyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.Name != "" {
		family.Name = payload.Name
	}
	if payload.Slug != "" {
		family.Slug = payload.Slug
	}
	if payload.ParishID != 0 {
		if _, err := h.ParishRepo.GetByID(payload.ParishID); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parish", "Parish does not exist")
			return
		}
		family.ParishID = payload.ParishID
	}

	if err := h.FamilyRepo.Update(family); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, "slug_taken", "A family with this slug already exists in the parish")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update family")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// Delete removes a family. Member profiles survive with their family
// reference cleared.
func (h *AdminFamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "family_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.FamilyRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Family not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete family")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
