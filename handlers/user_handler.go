package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paddleup/pickleplay/middleware"
	"github.com/paddleup/pickleplay/services"
)

const maxAvatarBytes = 5 << 20 // 5MB

type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, user, nil)
}

// UploadAvatar handles PUT /users/me/avatar. The raw image travels as
// the request body with its Content-Type header.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		errorResponse(w, http.StatusBadRequest, "Content-Type header is required")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	user, err := h.userService.UploadAvatar(r.Context(), userID, contentType, body)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "avatar upload failed",
			slog.Int("user_id", userID), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, user, nil)
}
