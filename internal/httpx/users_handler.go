package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/shop"
	"github.com/go-chi/chi/v5"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (shop.User, error)
	GetByEmail(ctx context.Context, email string) (shop.User, error)
}

type UsersHandler struct {
	Users      UserStore
	Tokens     *auth.TokenService
	BcryptCost int
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResp struct {
	Token string `json:"token"`
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Post("/api/users/register", h.register)
	r.Post("/api/users/login", h.login)
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeValid(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		writeError(w, err)
		return
	}

	u, err := h.Users.Create(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{Token: token})
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, shop.ErrUserNotFound) {
		writeMsg(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeMsg(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{Token: token})
}
