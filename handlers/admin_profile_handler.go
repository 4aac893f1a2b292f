package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

// AdminProfileHandler exposes back-office CRUD over member profiles,
// including the approval flag that self-service can never touch.
type AdminProfileHandler struct {
	ProfileRepo repository.ProfileRepository
	ParishRepo  repository.ParishRepository
	FamilyRepo  repository.FamilyRepository
	UserRepo    repository.UserRepository
}

func NewAdminProfileHandler(profileRepo repository.ProfileRepository, parishRepo repository.ParishRepository, familyRepo repository.FamilyRepository, userRepo repository.UserRepository) *AdminProfileHandler {
	return &AdminProfileHandler{ProfileRepo: profileRepo, ParishRepo: parishRepo, FamilyRepo: familyRepo, UserRepo: userRepo}
}

type AdminProfileCreatePayload struct {
	UserID   uint  `json:"user_id"`
	ParishID uint  `json:"parish_id"`
	FamilyID *uint `json:"family_id"`
}

type AdminProfileUpdatePayload struct {
	ParishID       *uint   `json:"parish_id,omitempty"`
	FamilyID       *uint   `json:"family_id,omitempty"`
	ClearFamily    bool    `json:"clear_family,omitempty"` // detach the profile from its family
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	VisibleName    *string `json:"visible_name,omitempty"`
	OptInDirectory *bool   `json:"opt_in_directory,omitempty"`
	Approved       *bool   `json:"approved,omitempty"`
}

func (h *AdminProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload AdminProfileCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.UserID == 0 || payload.ParishID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "user_id and parish_id are required")
		return
	}
	if _, err := h.UserRepo.GetByID(payload.UserID); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_user", "User does not exist")
		return
	}
	if _, err := h.ParishRepo.GetByID(payload.ParishID); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parish", "Parish does not exist")
		return
	}

	profile := &models.Profile{
		UserID:   payload.UserID,
		ParishID: payload.ParishID,
		FamilyID: payload.FamilyID,
	}
	if err := h.ProfileRepo.Create(profile); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, "profile_exists", "The user already has a profile")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create profile")
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// List supports the back-office search: text query over user email/name and
// family name, plus parish, approval, and opt-in filters.
func (h *AdminProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	parishID, err := optionalUintQuery(r, "parish_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	approved, err := optionalBoolQuery(r, "approved")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	optIn, err := optionalBoolQuery(r, "opt_in")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	profiles, err := h.ProfileRepo.List(repository.ProfileFilter{
		Query:    r.URL.Query().Get("q"),
		ParishID: parishID,
		Approved: approved,
		OptIn:    optIn,
	})
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list profiles")
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *AdminProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "profile_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	profile, err := h.ProfileRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdminProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "profile_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	profile, err := h.ProfileRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch profile")
		return
	}

	var payload AdminProfileUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if payload.ParishID != nil {
		if _, err := h.ParishRepo.GetByID(*payload.ParishID); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parish", "Parish does not exist")
			return
		}
		profile.ParishID = *payload.ParishID
	}
	if payload.ClearFamily {
		profile.FamilyID = nil
	} else if payload.FamilyID != nil {
		family, err := h.FamilyRepo.GetByID(*payload.FamilyID)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_family", "Family does not exist")
			return
		}
		if family.ParishID != profile.ParishID {
			WriteAPIError(w, http.StatusBadRequest, "invalid_family", "Family belongs to a different parish")
			return
		}
		profile.FamilyID = payload.FamilyID
	}
	if payload.Phone != nil {
		profile.Phone = *payload.Phone
	}
	if payload.Address != nil {
		profile.Address = *payload.Address
	}
	if payload.VisibleName != nil {
		profile.VisibleName = *payload.VisibleName
	}
	if payload.OptInDirectory != nil {
		profile.OptInDirectory = *payload.OptInDirectory
	}
	if payload.Approved != nil {
		profile.Approved = *payload.Approved
	}

	if err := h.ProfileRepo.Update(profile); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdminProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "profile_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.ProfileRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
