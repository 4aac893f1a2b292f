package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

type AuthHandler struct {
	Cfg            config.Config
	UserRepo       repository.UserRepository
	ProfileRepo    repository.ProfileRepository
	InviteCodeRepo repository.InviteCodeRepository
}

func NewAuthHandler(cfg config.Config, userRepo repository.UserRepository, profileRepo repository.ProfileRepository, inviteCodeRepo repository.InviteCodeRepository) *AuthHandler {
	return &AuthHandler{Cfg: cfg, UserRepo: userRepo, ProfileRepo: profileRepo, InviteCodeRepo: inviteCodeRepo}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) issueToken(userID uint) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(userID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "directorybackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil || !user.CheckPassword(payload.Password) {
		// same message for unknown user and bad password
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	tokenString, expiresAt, err := h.issueToken(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "token_error", "Failed to generate token")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = "" // belt and suspenders, the JSON tag already hides it

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expiresAt,
	})
}

type RegisterPayload struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	InviteCode string `json:"invite_code"`
}

// Register handles new user registration using an invite code. The new user
// gets a single profile attached to the invite code's parish; the profile
// stays out of the directory until the member opts in and an administrator
// approves it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" || payload.InviteCode == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Username, password, and invite code are required")
		return
	}

	inviteCode, err := h.InviteCodeRepo.GetByCode(payload.InviteCode)
	if err != nil {
		WriteAPIError(w, http.StatusForbidden, "invalid_invite_code", "Invalid or expired invite code")
		return
	}
	if !inviteCode.IsValid() {
		WriteAPIError(w, http.StatusForbidden, "invalid_invite_code", "Invite code is not valid (expired, inactive, or max uses reached)")
		return
	}

	newUser := &models.User{
		Username:          payload.Username,
		Email:             payload.Email,
		FirstName:         payload.FirstName,
		LastName:          payload.LastName,
		GlobalPermissions: []string{},
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			WriteAPIError(w, http.StatusConflict, "username_taken", "Username is already taken")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create user")
		return
	}

	profile := &models.Profile{
		UserID:   newUser.ID,
		ParishID: inviteCode.ParishID,
	}
	if err := h.ProfileRepo.Create(profile); err != nil {
		// roll the user back so a retry of the same registration can succeed
		if delErr := h.UserRepo.Delete(newUser.ID); delErr != nil {
			log.Printf("CRITICAL: user %s created but profile creation and cleanup both failed: %v / %v", newUser.Username, err, delErr)
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create profile")
		return
	}

	if err := h.InviteCodeRepo.IncrementUses(inviteCode.ID); err != nil {
		// user and profile exist; log and carry on
		log.Printf("failed to increment uses for invite code %s (ID: %d): %v", inviteCode.Code, inviteCode.ID, err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully. Please log in."})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler must be protected by AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve user from context")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}
