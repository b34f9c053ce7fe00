package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/anti-elegant/Delphi-sub000/internal/crypto"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/internal/server/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/validation"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

// AuthHandler handles registration, salt lookup and login.
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	jwtCfg JWTConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, jwtCfg JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		jwtCfg: jwtCfg,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "invalid request body")
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, err.Error())
		return
	}
	if err := validateAuthKeyHash(req.AuthKeyHash); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, err.Error())
		return
	}
	if err := validatePublicSalt(req.PublicSalt); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, err.Error())
		return
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Username:    req.Username,
		AuthKeyHash: req.AuthKeyHash,
		PublicSalt:  req.PublicSalt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			writeError(w, h.logger, http.StatusConflict, api.CodeConflict, "username already taken")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to create user")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	writeJSON(w, h.logger, http.StatusCreated, api.RegisterResponse{
		UserID:  user.ID,
		Message: "registration successful",
	})
}

// Salt handles GET /api/v1/auth/salt/{username}.
func (h *AuthHandler) Salt(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.CodeNotFound, "user not found")
			return
		}
		h.logger.Error("failed to load user", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to load user")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.SaltResponse{PublicSalt: user.PublicSalt})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "invalid request body")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Same answer as a wrong key so usernames can't be probed
			writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("failed to load user", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to load user")
		return
	}

	if err := crypto.VerifyAuthKeyHash(req.AuthKeyHash, user.AuthKeyHash); err != nil {
		h.logger.Warn("login rejected", "username", req.Username)
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials")
		return
	}

	token, expiresIn, err := GenerateAccessToken(h.jwtCfg, user.ID, user.Username)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to generate token")
		return
	}

	if err := h.users.UpdateLastLogin(r.Context(), user.ID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to update last login", "error", err, "user_id", user.ID)
	}

	h.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	writeJSON(w, h.logger, http.StatusOK, api.TokenResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
	})
}

func validateAuthKeyHash(hash string) error {
	if len(hash) != 64 {
		return errors.New("auth_key_hash must be a hex-encoded SHA256 digest")
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return errors.New("auth_key_hash must be a hex-encoded SHA256 digest")
		}
	}
	return nil
}

func validatePublicSalt(salt string) error {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil || len(raw) != 32 {
		return errors.New("public_salt must be 32 base64-encoded bytes")
	}
	return nil
}
