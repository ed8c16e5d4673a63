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

type UsersHandler struct {
	UserService *service.UserService
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Username: u.Username}
}

func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	switch {
	case strings.TrimSpace(req.Name) == "":
		httpx.WriteMessage(w, http.StatusBadRequest, "name is required")
		return
	case strings.TrimSpace(req.Username) == "":
		httpx.WriteMessage(w, http.StatusBadRequest, "username is required")
		return
	case len(req.Password) < 8:
		httpx.WriteMessage(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	sess, err := h.UserService.Register(ctx, req.Name, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			httpx.WriteMessage(w, http.StatusBadRequest, "username is already taken")
			return
		}
		log.Error("failed to register user", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{
		User:  toUserResponse(sess.User),
		Token: sess.Token,
	})
}

func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	sess, err := h.UserService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		log.Error("failed to log user in", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		User:  toUserResponse(sess.User),
		Token: sess.Token,
	})
}

func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.UserService.GetProfile(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		log.Error("failed to load profile", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "User not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
