// Package handler wires the registry service to its HTTP surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"selfid/internal/registry/models"
	id "selfid/pkg/domain"
	dErrors "selfid/pkg/domain-errors"
	"selfid/pkg/platform/httputil"
	"selfid/pkg/requestcontext"
)

// Service defines the registry operations the HTTP surface exposes.
type Service interface {
	RegisterIdentity(ctx context.Context, caller id.Principal, did string) (bool, error)
	UpdateDID(ctx context.Context, caller id.Principal, did string) (bool, error)
	LinkCredential(ctx context.Context, caller id.Principal, credential string) (bool, error)
	UnlinkCredential(ctx context.Context, caller id.Principal, credential string) (bool, error)
	SetPaused(ctx context.Context, caller id.Principal, pause bool) (bool, error)
	TransferAdmin(ctx context.Context, caller, newAdmin id.Principal) (bool, error)
	GetIdentity(ctx context.Context, user id.Principal) (*models.Identity, error)
	GetUserByDID(ctx context.Context, did string) (id.Principal, error)
	IsRegistered(ctx context.Context, user id.Principal) (bool, error)
	Status(ctx context.Context) (models.Config, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the mutating endpoints. The router mounting these must run
// the auth middleware first; every handler here reads the caller from context.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/identities", h.HandleRegisterIdentity)
	r.Put("/registry/identities/did", h.HandleUpdateDID)
	r.Post("/registry/identities/credentials", h.HandleLinkCredential)
	r.Delete("/registry/identities/credentials/{credential}", h.HandleUnlinkCredential)
	r.Post("/registry/admin/pause", h.HandleSetPaused)
	r.Post("/registry/admin/transfer", h.HandleTransferAdmin)
}

// RegisterReads mounts the read-only endpoints. Reads answer any caller and
// keep working while the registry is paused.
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/registry/identities/{user}", h.HandleGetIdentity)
	r.Get("/registry/identities/{user}/registered", h.HandleIsRegistered)
	r.Get("/registry/dids/{did}", h.HandleGetUserByDID)
	r.Get("/registry/status", h.HandleStatus)
}

// HandleRegisterIdentity handles POST /registry/identities.
func (h *Handler) HandleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[models.RegisterIdentityRequest](w, r)
	if !ok {
		return
	}

	value, err := h.service.RegisterIdentity(ctx, caller, req.DID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ValueResponse{Value: value})
}

// HandleUpdateDID handles PUT /registry/identities/did.
func (h *Handler) HandleUpdateDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[models.UpdateDIDRequest](w, r)
	if !ok {
		return
	}

	value, err := h.service.UpdateDID(ctx, caller, req.DID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: value})
}

// HandleLinkCredential handles POST /registry/identities/credentials.
func (h *Handler) HandleLinkCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[models.LinkCredentialRequest](w, r)
	if !ok {
		return
	}

	value, err := h.service.LinkCredential(ctx, caller, req.CredentialID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: value})
}

// HandleUnlinkCredential handles DELETE /registry/identities/credentials/{credential}.
func (h *Handler) HandleUnlinkCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}

	value, err := h.service.UnlinkCredential(ctx, caller, chi.URLParam(r, "credential"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: value})
}

// HandleSetPaused handles POST /registry/admin/pause.
func (h *Handler) HandleSetPaused(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[models.SetPausedRequest](w, r)
	if !ok {
		return
	}

	value, err := h.service.SetPaused(ctx, caller, req.Paused)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: value})
}

// HandleTransferAdmin handles POST /registry/admin/transfer.
func (h *Handler) HandleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[models.TransferAdminRequest](w, r)
	if !ok {
		return
	}

	value, err := h.service.TransferAdmin(ctx, caller, id.Principal(req.NewAdmin))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: value})
}

// HandleGetIdentity handles GET /registry/identities/{user}.
func (h *Handler) HandleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, err := h.service.GetIdentity(ctx, id.Principal(chi.URLParam(r, "user")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ident == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no identity for user"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ident)
}

// HandleIsRegistered handles GET /registry/identities/{user}/registered.
func (h *Handler) HandleIsRegistered(w http.ResponseWriter, r *http.Request) {
	registered, err := h.service.IsRegistered(r.Context(), id.Principal(chi.URLParam(r, "user")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ValueResponse{Value: registered})
}

// HandleGetUserByDID handles GET /registry/dids/{did}.
func (h *Handler) HandleGetUserByDID(w http.ResponseWriter, r *http.Request) {
	owner, err := h.service.GetUserByDID(r.Context(), chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if owner.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "did is unclaimed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.OwnerResponse{Owner: owner.String()})
}

// HandleStatus handles GET /registry/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Status(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.StatusResponse{
		Admin:           cfg.Admin.String(),
		Paused:          cfg.Paused,
		TotalIdentities: cfg.TotalIdentities,
	})
}

// caller pulls the authenticated principal out of the context. The auth
// middleware guarantees it for mutating routes; this guards against a
// misconfigured router.
func (h *Handler) caller(w http.ResponseWriter, ctx context.Context) (id.Principal, bool) {
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		h.logger.WarnContext(ctx, "mutating route reached without a principal",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.ZeroPrincipal, false
	}
	return caller, true
}
