package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/pkg/httpx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// SharesHandler serves the share management endpoints nested under one
// resource kind.
type SharesHandler struct {
	Kind         domain.Kind
	ShareService *service.ShareService

	// BaseURL is the client origin share links are built against.
	BaseURL string
}

type mintShareRequest struct {
	CanEdit *bool `json:"canEdit"`
}

func (h *SharesHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	// The body is optional; an empty one means the per-kind default grant.
	var req mintShareRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	link, err := h.ShareService.MintShareLink(ctx, userID, resourceID, h.Kind, req.CanEdit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrNotEditor):
			httpx.WriteMessage(w, http.StatusForbidden, "You are not authorized to share this "+h.Kind.Label())
		default:
			log.Error("failed to mint share link", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error creating copy link")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"url": strings.TrimSuffix(h.BaseURL, "/") + "/join/" + link.Code,
	})
}

func (h *SharesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	members, err := h.ShareService.ListShares(ctx, userID, resourceID, h.Kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrNotOwner):
			httpx.WriteMessage(w, http.StatusForbidden, "Unauthorized")
		default:
			log.Error("failed to list shares", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error getting shared users")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, members)
}

func (h *SharesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	var update service.ShareUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Id is invalid")
		return
	}

	err := h.ShareService.UpdateShares(ctx, userID, resourceID, h.Kind, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrNotOwner):
			httpx.WriteMessage(w, http.StatusForbidden, "Unauthorized")
		default:
			log.Error("failed to update shares", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error updating permissions")
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Permissions updated")
}

func (h *SharesHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	err := h.ShareService.RemoveSelf(ctx, userID, resourceID, h.Kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrOwnerCannotLeave):
			httpx.WriteMessage(w, http.StatusBadRequest, "Owners cannot remove themselves")
		default:
			log.Error("failed to remove membership", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error removing access")
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "You have been removed")
}
