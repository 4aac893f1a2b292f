package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

// AdminInviteCodeHandler manages the registration invite codes.
type AdminInviteCodeHandler struct {
	InviteCodeRepo repository.InviteCodeRepository
	ParishRepo     repository.ParishRepository
}

func NewAdminInviteCodeHandler(inviteCodeRepo repository.InviteCodeRepository, parishRepo repository.ParishRepository) *AdminInviteCodeHandler {
	return &AdminInviteCodeHandler{InviteCodeRepo: inviteCodeRepo, ParishRepo: parishRepo}
}

type InviteCodeCreatePayload struct {
	ParishID  uint       `json:"parish_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
}

func (h *AdminInviteCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload InviteCodeCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.ParishID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "parish_id is required")
		return
	}
	if _, err := h.ParishRepo.GetByID(payload.ParishID); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parish", "Parish does not exist")
		return
	}

	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	inviteCode := &models.InviteCode{
		ParishID:        payload.ParishID,
		ExpiresAt:       payload.ExpiresAt,
		MaxUses:         payload.MaxUses,
		IsActive:        true,
		CreatedByUserID: user.ID,
	}
	if err := h.InviteCodeRepo.Create(inviteCode); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create invite code")
		return
	}
	writeJSON(w, http.StatusCreated, inviteCode)
}

func (h *AdminInviteCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	inviteCodes, err := h.InviteCodeRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list invite codes")
		return
	}
	writeJSON(w, http.StatusOK, inviteCodes)
}

type InviteCodeUpdatePayload struct {
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
}

func (h *AdminInviteCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "invite_code_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	inviteCode, err := h.InviteCodeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Invite code not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch invite code")
		return
	}

	var payload InviteCodeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.IsActive != nil {
		inviteCode.IsActive = *payload.IsActive
	}
	if payload.ExpiresAt != nil {
		inviteCode.ExpiresAt = payload.ExpiresAt
	}
	if payload.MaxUses != nil {
		inviteCode.MaxUses = payload.MaxUses
	}

	if err := h.InviteCodeRepo.Update(inviteCode); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update invite code")
		return
	}
	writeJSON(w, http.StatusOK, inviteCode)
}

func (h *AdminInviteCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintURLParam(r, "invite_code_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.InviteCodeRepo.Delete(id); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete invite code")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
