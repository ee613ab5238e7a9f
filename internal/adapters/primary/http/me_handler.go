package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/adapters/primary/validation"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// MeHandler handles HTTP requests for the authenticated user's profile and
// settings, including the online time source token.
type MeHandler struct {
	profileService ports.ProfileService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(
	profileService ports.ProfileService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *MeHandler {
	return &MeHandler{
		profileService: profileService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "me"),
	}
}

// RegisterRoutes registers the /me routes.
func (h *MeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetProfile)
	r.Patch("/", h.HandleUpdateProfile)
	r.Put("/password", h.HandleChangePassword)
}

// UpdateProfileRequest defines the expected JSON body for profile updates.
// Absent fields are left unchanged; ssmApiToken may be the empty string to
// disconnect the online time source.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	SSMAPIToken *string `json:"ssmApiToken"`
}

// Validate validates the update profile request
func (r *UpdateProfileRequest) Validate() error {
	v := validation.NewValidator()

	if r.FullName != nil {
		v.Required("fullName", *r.FullName).
			MaxLength("fullName", *r.FullName, domain.MaxFullNameLength)
	}
	if r.Email != nil {
		v.Required("email", *r.Email).
			Email("email", *r.Email)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ChangePasswordRequest defines the expected JSON body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate validates the change password request
func (r *ChangePasswordRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("currentPassword", r.CurrentPassword)
	v.Required("newPassword", r.NewPassword)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleGetProfile handles GET /me
func (h *MeHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.Get(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleUpdateProfile handles PATCH /me
func (h *MeHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateProfileRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), ports.UpdateProfileParams{
		UserID:      claims.UserID,
		FullName:    req.FullName,
		Email:       req.Email,
		SSMAPIToken: req.SSMAPIToken,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("profile updated", "user_id", claims.UserID)

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleChangePassword handles PUT /me/password
func (h *MeHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[ChangePasswordRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.profileService.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("password changed", "user_id", claims.UserID)

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context.
func (h *MeHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
