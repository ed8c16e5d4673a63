package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/pkg/httpx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// ResourcesHandler serves the CRUD endpoints of one resource kind. The same
// handler is registered twice, once per kind, with only the Kind field
// differing.
type ResourcesHandler struct {
	Kind            domain.Kind
	ResourceService *service.ResourceService
}

func (h *ResourcesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	filter := parseResourceFilter(r)

	resources, err := h.ResourceService.List(ctx, h.Kind, userID, filter)
	if err != nil {
		log.Error("failed to list resources", "kind", h.Kind, "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Error getting "+h.Kind.Label()+"s")
		return
	}

	out := make([]map[string]any, 0, len(resources))
	for _, res := range resources {
		out = append(out, resourceJSON(res))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ResourcesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	title, color, payload, errMsg := decodeResourceBody(r)
	if errMsg != "" {
		httpx.WriteMessage(w, http.StatusBadRequest, errMsg)
		return
	}

	res, err := h.ResourceService.Create(ctx, h.Kind, userID, title, color, payload)
	if err != nil {
		log.Error("failed to create resource", "kind", h.Kind, "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Error creating "+h.Kind.Label())
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, resourceJSON(res))
}

func (h *ResourcesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	title, color, payload, errMsg := decodeResourceBody(r)
	if errMsg != "" {
		httpx.WriteMessage(w, http.StatusBadRequest, errMsg)
		return
	}

	res, err := h.ResourceService.Update(ctx, h.Kind, userID, resourceID, title, color, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrNotEditor):
			httpx.WriteMessage(w, http.StatusForbidden, "You are not authorized to update this "+h.Kind.Label())
		default:
			log.Error("failed to update resource", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error updating "+h.Kind.Label())
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resourceJSON(res))
}

func (h *ResourcesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	resourceID := r.PathValue("id")

	err := h.ResourceService.Delete(ctx, h.Kind, userID, resourceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResourceNotFound):
			httpx.WriteMessage(w, http.StatusBadRequest, h.Kind.Label()+" not found")
		case errors.Is(err, service.ErrNotOwner):
			httpx.WriteMessage(w, http.StatusForbidden, "You are not authorized to delete this "+h.Kind.Label())
		default:
			log.Error("failed to delete resource", "kind", h.Kind, "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error deleting "+h.Kind.Label())
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Successfully deleted")
}

// decodeResourceBody validates the shared fields and returns everything else
// as the kind-specific payload. The returned message is empty on success and
// is written verbatim to the client otherwise.
func decodeResourceBody(r *http.Request) (title, color string, payload json.RawMessage, errMsg string) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		return "", "", nil, "title is required"
	}

	title, _ = body["title"].(string)
	if strings.TrimSpace(title) == "" {
		return "", "", nil, "title is required"
	}

	color, _ = body["color"].(string)
	if !domain.IsValidColor(color) {
		return "", "", nil, "a valid color is required"
	}

	// Server-managed fields cannot be smuggled in through the payload.
	for _, k := range []string{"id", "type", "ownerId", "title", "color", "createdAt", "updatedAt"} {
		delete(body, k)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", "", nil, "title is required"
	}
	return title, color, payload, ""
}

// resourceJSON flattens a resource into the wire shape clients expect: the
// shared columns plus the payload fields spread at the top level.
func resourceJSON(res domain.Resource) map[string]any {
	out := map[string]any{}
	if len(res.Payload) > 0 {
		_ = json.Unmarshal(res.Payload, &out)
	}

	out["id"] = res.ID
	out["type"] = string(res.Kind)
	out["ownerId"] = res.OwnerID
	out["title"] = res.Title
	out["color"] = res.Color
	out["createdAt"] = res.CreatedAt
	out["updatedAt"] = res.UpdatedAt
	return out
}

func parseResourceFilter(r *http.Request) store.ResourceFilter {
	q := r.URL.Query()

	var f store.ResourceFilter
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("pageSize"))
	f.OwnerOnly = q.Get("isOwner") == "true"

	if v := q.Get("favourite"); v != "" {
		fav := v == "true"
		f.Favourite = &fav
	}
	if n, err := strconv.Atoi(q.Get("serves")); err == nil {
		f.Serves = &n
	}
	if n, err := strconv.Atoi(q.Get("maxCookingTime")); err == nil {
		f.MaxCookingTime = &n
	}
	if n, err := strconv.Atoi(q.Get("maxCost")); err == nil {
		f.MaxCost = &n
	}
	return f
}
