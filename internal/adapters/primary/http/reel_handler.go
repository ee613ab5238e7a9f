package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/adapters/primary/validation"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

const maxReelsPerPage = 50

// ReelHandler handles HTTP requests for the reel feed.
type ReelHandler struct {
	reelService  ports.ReelService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewReelHandler creates a new reel handler.
func NewReelHandler(
	reelService ports.ReelService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReelHandler {
	return &ReelHandler{
		reelService:  reelService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "reel"),
	}
}

// RegisterRoutes sets up the routing for all reel endpoints.
func (h *ReelHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListReels)
	r.Post("/", h.HandleCreateReel)
	r.Delete("/{reelID}", h.HandleDeleteReel)
}

// --- Request/Response DTOs ---

// CreateReelRequest defines the expected JSON body for posting a reel
type CreateReelRequest struct {
	Type     string `json:"type"`
	Caption  string `json:"caption"`
	Content  string `json:"content"`
	FilePath string `json:"filePath"`
}

// Validate validates the create reel request
func (r *CreateReelRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("type", r.Type).
		OneOf("type", r.Type, []string{"video", "image", "text"})

	v.MaxLength("caption", r.Caption, domain.MaxCaptionLength)

	v.RequiredIf("content", r.Content, r.Type == "text", "Text reels need content")
	v.RequiredIf("filePath", r.FilePath, r.Type == "video" || r.Type == "image", "Media reels need a file path")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ReelDTO defines the JSON response for reels.
type ReelDTO struct {
	ID        int64  `json:"id"`
	AuthorID  string `json:"authorId"`
	Type      string `json:"type"`
	Caption   string `json:"caption"`
	Content   string `json:"content"`
	FilePath  string `json:"filePath"`
	CreatedAt string `json:"createdAt"`
}

func toReelDTO(reel *domain.Reel) ReelDTO {
	return ReelDTO{
		ID:        reel.ID,
		AuthorID:  reel.AuthorID.String(),
		Type:      string(reel.Type),
		Caption:   reel.Caption,
		Content:   reel.Content,
		FilePath:  reel.FilePath,
		CreatedAt: reel.CreatedAt.Format(time.RFC3339),
	}
}

func toReelDTOs(reels []*domain.Reel) []ReelDTO {
	response := make([]ReelDTO, 0, len(reels))
	for _, reel := range reels {
		response = append(response, toReelDTO(reel))
	}
	return response
}

// --- Handlers ---

// HandleListReels handles GET /reels
func (h *ReelHandler) HandleListReels(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxReelsPerPage)

	reels, err := h.reelService.ListReels(r.Context(), pagination.Limit+1, pagination.Offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toReelDTOs(reels), pagination.Limit, pagination.Offset)
}

// HandleCreateReel handles POST /reels
func (h *ReelHandler) HandleCreateReel(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateReelRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	reel, err := h.reelService.CreateReel(r.Context(), ports.CreateReelParams{
		ActorID:  claims.UserID,
		Type:     domain.ReelType(req.Type),
		Caption:  req.Caption,
		Content:  req.Content,
		FilePath: req.FilePath,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("reel created",
		"reel_id", reel.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toReelDTO(reel))
}

// HandleDeleteReel handles DELETE /reels/{reelID}
func (h *ReelHandler) HandleDeleteReel(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	reelIDStr := chi.URLParam(r, "reelID")
	reelID, err := strconv.ParseInt(reelIDStr, 10, 64)
	if err != nil || reelID <= 0 {
		v := validation.NewValidator()
		v.Custom("reelID", false, "Invalid reel ID")
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	if err := h.reelService.DeleteReel(r.Context(), reelID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("reel deleted",
		"reel_id", reelID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context
func (h *ReelHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
