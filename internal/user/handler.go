// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/adminauth"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterAdminRoutes registers the admin-only users resource.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Patch("/", h.UpdateVerification)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := profile.ListParams{
		Page:               parseIntQuery(r, "page", 1),
		PageSize:           parseIntQuery(r, "limit", 20),
		Search:             q.Get("search"),
		VerificationStatus: q.Get("verificationStatus"),
		SortBy:             q.Get("sortBy"),
		SortOrder:          q.Get("sortOrder"),
	}

	resp, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

// UpdateVerification grants or revokes admin verification for userId. The
// caller recorded as verifier is the authenticated admin.
func (h *Handler) UpdateVerification(w http.ResponseWriter, r *http.Request) {
	actingID := middleware.GetPrincipalID(r.Context())

	var req UpdateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.UpdateVerification(r.Context(), actingID, req)
	if err != nil {
		if errors.Is(err, adminauth.ErrVerificationUpdateFailed) {
			slog.ErrorContext(r.Context(), "verification update failed",
				"error", err,
				"acting_principal_id", actingID,
			)
			core.JSONError(w, core.NewAppError(
				err,
				"failed to update verification",
				http.StatusInternalServerError,
				"VERIFICATION_UPDATE_FAILED",
			))
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "userId and verified are required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UpdateVerificationResponse{Success: true})
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
