package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lenslab/internal/auth"
	"lenslab/internal/domain"
	"lenslab/internal/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	HasAPIConfig *bool  `json:"hasApiConfig,omitempty"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "fill_all_fields")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		a.error(w, r, http.StatusBadRequest, "fill_all_fields")
		return
	}
	if len(req.Password) < 6 {
		a.error(w, r, http.StatusBadRequest, "password_too_short")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.errorRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	user, err := a.Users.Create(req.Email, req.Username, hash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, r, http.StatusConflict, "email_registered")
			return
		}
		a.Logger.Error().Err(err).Msg("create user failed")
		a.errorRaw(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.startSession(w, r, user)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "fill_credentials")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, r, http.StatusBadRequest, "fill_credentials")
		return
	}

	user, err := a.Users.FindByEmail(req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		// Same message for unknown email and wrong password.
		a.error(w, r, http.StatusUnauthorized, "wrong_credentials")
		return
	}

	a.startSession(w, r, user)
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	a.Tokens.ClearCookie(w)
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "signin_required")
		return
	}

	// Config status comes from the stored record, not the token, so a
	// just-saved configuration is reflected immediately.
	hasConfig := principal.Admin
	if !hasConfig {
		if user, err := a.Users.FindByID(principal.UserID); err == nil {
			hasConfig = user.HasAPIConfig()
		}
	}

	a.json(w, http.StatusOK, map[string]userDTO{"user": {
		ID:           principal.UserID,
		Email:        principal.Email,
		Username:     principal.Username,
		IsAdmin:      principal.Admin,
		HasAPIConfig: &hasConfig,
	}})
}

func (a *App) startSession(w http.ResponseWriter, r *http.Request, user domain.User) {
	principal := domain.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Admin:    a.isAdminEmail(user.Email),
	}
	token, err := a.Tokens.Sign(principal)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session token failed")
		a.errorRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Tokens.SetCookie(w, token)
	a.json(w, http.StatusOK, map[string]userDTO{"user": {
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		IsAdmin:  principal.Admin,
	}})
}
