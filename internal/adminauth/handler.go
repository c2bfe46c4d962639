// AngelaMos | 2026
// handler.go

package adminauth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
)

type Handler struct {
	authz     *Authorizer
	validator *validator.Validate
}

func NewHandler(authz *Authorizer) *Handler {
	return &Handler{
		authz:     authz,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	rateLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(rateLimit)

		r.Post("/check-admin", h.CheckAdmin)
		r.Get("/session", h.Session)
	})
}

// CheckAdmin answers whether userId is an admin. The answer is false for
// every failure, so the only error responses are for bad input.
func (h *Handler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	var req CheckAdminRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	core.OK(w, CheckAdminResponse{
		IsAdmin: h.authz.IsAdmin(r.Context(), req.UserID),
	})
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		core.Unauthorized(w, "missing authorization token")
		return
	}

	core.OK(w, h.authz.VerifySession(r.Context(), token))
}
