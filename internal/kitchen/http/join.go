package http

import (
	"errors"
	"net/http"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/pkg/httpx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// JoinHandler resolves share codes. The GET preview is public; redeeming
// requires an authenticated caller to attach the membership to.
type JoinHandler struct {
	JoinService *service.JoinService
}

func (h *JoinHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	info, err := h.JoinService.GetJoinInfo(ctx, r.PathValue("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkInvalid):
			httpx.WriteMessage(w, http.StatusBadRequest, "Link is not valid")
		case errors.Is(err, service.ErrLinkExpired):
			httpx.WriteMessage(w, http.StatusBadRequest, "Link has expired")
		default:
			log.Error("failed to resolve share code", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error joining")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, info)
}

func (h *JoinHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	redirect, err := h.JoinService.Redeem(ctx, userID, r.PathValue("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkInvalid):
			httpx.WriteMessage(w, http.StatusBadRequest, "Link is not valid")
		case errors.Is(err, service.ErrLinkExpired):
			httpx.WriteMessage(w, http.StatusBadRequest, "Link has expired")
		case errors.Is(err, service.ErrAlreadyJoined):
			httpx.WriteMessage(w, http.StatusBadRequest, "Already joined")
		default:
			log.Error("failed to redeem share code", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error joining")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"url": redirect})
}
