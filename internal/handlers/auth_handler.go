package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/repositories"
	"mockmate/internal/utils"
)

// AuthHandler manages authentication and profile endpoints.
type AuthHandler struct {
	Repo   UserRepository
	Auth   *middleware.Auth
	Logger *zap.Logger
}

func NewAuthHandler(repo UserRepository, auth *middleware.Auth, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Repo: repo, Auth: auth, Logger: logger}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	if !utils.IsPasswordValid(req.Password) {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "weak_password",
			Message: "Password must be at least 8 characters and contain a special character",
		})
		return
	}

	if existing, _ := h.Repo.GetUserByUsername(req.Username); existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "username_taken",
			Message: "Username taken",
		})
		return
	}
	if existing, _ := h.Repo.GetUserByEmail(req.Email); existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "email_taken",
			Message: "Email taken",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "hash_error",
			Message: "Failed to hash password",
		})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  req.Username,
		PasswordHash: string(hash),
	}
	if err := h.Repo.CreateUser(user); err != nil {
		h.Logger.Error("Failed to create user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to create user",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"userId":   user.UserID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.Repo.GetUserByUsername(req.Username)
	if err != nil || user == nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid credentials",
		})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid credentials",
		})
		return
	}

	token, err := h.Auth.Issue(r.Context(), user.UserID)
	if err != nil {
		h.Logger.Error("Failed to issue session", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to sign token",
		})
		return
	}

	middleware.SetCookie(w, token)
	utils.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := ""
	if hdr := r.Header.Get("Authorization"); strings.HasPrefix(hdr, "Bearer ") {
		tokenString = strings.TrimPrefix(hdr, "Bearer ")
	} else if c, err := r.Cookie(middleware.SessionCookie); err == nil {
		tokenString = c.Value
	}
	if tokenString != "" {
		_ = h.Auth.Revoke(r.Context(), tokenString)
	}
	middleware.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ProfileUpdateRequest](r)
	userID := middleware.UserID(r)

	user, err := h.Repo.UpdateDisplayName(userID, req.DisplayName)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "user_not_found",
			Message: "User not found",
		})
		return
	}
	if err != nil {
		h.Logger.Error("Failed to update profile", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to update profile",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"userId":      user.UserID,
		"displayName": user.DisplayName,
	})
}

// DeleteProfileHandler is an intentional no-op: account deletion is exposed
// in the UI but not implemented server-side yet.
func (h *AuthHandler) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusAccepted, map[string]string{"status": "deletion_not_implemented"})
}
