package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/media"
	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

// maxPhotoUploadBytes caps photo uploads at 25 MiB, checked before any
// normalization work happens.
const maxPhotoUploadBytes = 25 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ProfileHandler serves the member's self-service profile form.
type ProfileHandler struct {
	Cfg         config.Config
	ProfileRepo repository.ProfileRepository
	FamilyRepo  repository.FamilyRepository
	Store       media.Store
}

func NewProfileHandler(cfg config.Config, profileRepo repository.ProfileRepository, familyRepo repository.FamilyRepository, store media.Store) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, ProfileRepo: profileRepo, FamilyRepo: familyRepo, Store: store}
}

func (h *ProfileHandler) ownProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return nil, false
	}

	profile, err := h.ProfileRepo.GetByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "profile_not_found", "No profile exists for this account")
		} else {
			log.Printf("profile: failed to load profile for user %d: %v", user.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to load profile")
		}
		return nil, false
	}
	return profile, true
}

// GetOwn returns the authenticated user's profile.
func (h *ProfileHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type ProfileUpdatePayload struct {
	FamilyID       *uint  `json:"family_id"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	VisibleName    string `json:"visible_name"`
	OptInDirectory bool   `json:"opt_in_directory"`
}

// UpdateOwn applies the self-service form: family selection, phone, address,
// display name override, and the directory opt-in flag. Approval stays
// untouched; only administrators change it.
func (h *ProfileHandler) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	var payload ProfileUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if payload.FamilyID != nil {
		family, err := h.FamilyRepo.GetByID(*payload.FamilyID)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_family", "Selected family does not exist")
			return
		}
		if family.ParishID != profile.ParishID {
			WriteAPIError(w, http.StatusBadRequest, "invalid_family", "Selected family belongs to a different parish")
			return
		}
	}

	profile.FamilyID = payload.FamilyID
	profile.Phone = payload.Phone
	profile.Address = payload.Address
	profile.VisibleName = payload.VisibleName
	profile.OptInDirectory = payload.OptInDirectory

	if err := h.ProfileRepo.Update(profile); err != nil {
		log.Printf("profile: failed to update profile %d: %v", profile.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update profile")
		return
	}

	updated, err := h.ProfileRepo.GetByID(profile.ID)
	if err != nil {
		writeJSON(w, http.StatusOK, profile)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UploadPhoto accepts a multipart photo upload, validates size and content
// type, normalizes the image, and only then persists the stored path. The
// raw upload is never written to the media root, so no code path can leave a
// profile pointing at an unnormalized file.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	// enough headroom that a modestly oversized file still parses and gets
	// the size message below; the reader cap only cuts off absurd bodies
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxPhotoUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteAPIError(w, http.StatusBadRequest, "photo_too_large", "Photo file size must be under 25MB.")
			return
		}
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "A 'photo' file field is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoUploadBytes {
		WriteAPIError(w, http.StatusBadRequest, "photo_too_large",
			fmt.Sprintf("Photo file size must be under 25MB. Current size: %.1fMB", float64(header.Size)/(1024*1024)))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		WriteAPIError(w, http.StatusBadRequest, "unsupported_photo_type",
			fmt.Sprintf("Please upload a valid image file (JPEG, PNG, or GIF); got '%s'", contentType))
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to read uploaded file")
		return
	}

	normalized, err := media.Normalize(raw)
	if err != nil {
		// normalization failure aborts the whole save; nothing was persisted
		var procErr *media.ProcessingError
		if errors.As(err, &procErr) {
			WriteAPIError(w, http.StatusBadRequest, "image_processing_failed", procErr.Error())
		} else {
			WriteAPIError(w, http.StatusBadRequest, "image_processing_failed", "Image processing failed")
		}
		return
	}

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Uploaded file has no usable filename")
		return
	}

	photoDir := media.ProfilePhotoDir(filepath.Base(h.Cfg.ProfilePhotosPath), profile.UserID)
	oldPhotoPath := profile.PhotoPath

	relPath, err := h.Store.Save(photoDir, filename, bytes.NewReader(normalized))
	if err != nil {
		log.Printf("profile: failed to store photo for profile %d: %v", profile.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store photo")
		return
	}

	if err := h.ProfileRepo.UpdatePhotoPath(profile.ID, &relPath); err != nil {
		// the record still references the old photo; remove the new file
		// unless it landed on the same path
		if oldPhotoPath == nil || *oldPhotoPath != relPath {
			if delErr := h.Store.Delete(relPath); delErr != nil {
				log.Printf("profile: failed to clean up photo %s after DB error: %v", relPath, delErr)
			}
		}
		log.Printf("profile: failed to persist photo path for profile %d: %v", profile.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to save photo")
		return
	}

	// last-writer-wins: drop the previous photo once the new one is committed
	if oldPhotoPath != nil && *oldPhotoPath != relPath {
		if err := h.Store.Delete(*oldPhotoPath); err != nil {
			log.Printf("profile: failed to delete previous photo %s: %v", *oldPhotoPath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"photo_path": relPath})
}
