package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/folioai/folio/internal/models"
)

// userResponse builds the public response shape for a user account.
func userResponse(user *models.InternalUser) map[string]interface{} {
	return map[string]interface{}{
		"user_id": user.UserID,
		"email":   user.Email,
		"name":    user.Name,
		"role":    user.Role,
	}
}

// handleUserCreate handles POST /api/users — register a new account.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		WriteError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Password == "" {
		WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if _, err := store.GetUserByEmail(ctx, email); err == nil {
		WriteError(w, http.StatusConflict, "an account with that email already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.InternalUser{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User registered")

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   userResponse(user),
	})
}

// handleUserMe handles GET/PUT /api/users/me for the authenticated user.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   userResponse(user),
		})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		if *req.Password == "" {
			WriteError(w, http.StatusBadRequest, "password cannot be empty")
			return
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			WriteError(w, http.StatusInternalServerError, "failed to update user")
			return
		}
		user.PasswordHash = hash
	}

	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
		WriteError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   userResponse(user),
	})
}

// handleUserPreferences handles GET/PUT /api/users/me/preferences.
// Preferences are free-form key-value pairs; a null value in a PUT body
// removes the key.
func (s *Server) handleUserPreferences(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	userID := RequireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if r.Method == http.MethodPut {
		var req map[string]*string
		if !DecodeJSON(w, r, &req) {
			return
		}
		for key, value := range req {
			key = strings.TrimSpace(key)
			if key == "" {
				WriteError(w, http.StatusBadRequest, "preference keys cannot be empty")
				return
			}
			if value == nil {
				if err := store.DeleteUserKV(ctx, userID, key); err != nil {
					WriteServiceError(w, err)
					return
				}
				continue
			}
			if err := store.SetUserKV(ctx, userID, key, *value); err != nil {
				WriteServiceError(w, err)
				return
			}
		}
	}

	entries, err := store.ListUserKV(ctx, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	prefs := make(map[string]string, len(entries))
	for _, kv := range entries {
		prefs[kv.Key] = kv.Value
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   prefs,
	})
}
