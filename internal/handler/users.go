package handler

import (
	"net/http"

	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/httpx"
	"github.com/templui/userfiles/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Ensure provisions or refreshes the caller's user record
func (h *UserHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Ensure(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.RequireCurrent(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, user)
}

// List returns every user. It is deliberately unauthenticated.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.All(r.Context())
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, users)
}
