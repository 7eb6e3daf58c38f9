package handler

import (
	"context"
	"net/http"

	"github.com/offerhub/offerhub-go/internal/model"
)

// AuthService is the account logic used by AuthHandler.
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

// AuthHandler handles HTTP requests for user accounts.
type AuthHandler struct {
	service AuthService
	maxBody int64
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, maxBody int64) *AuthHandler {
	return &AuthHandler{service: svc, maxBody: maxBody}
}

// HandleSignup handles POST /user/signup requests. The body may be JSON or a
// multipart form carrying an optional avatar file.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	avatar, err := body.Files("avatar")
	if err != nil {
		writeBodyError(w, err)
		return
	}

	resp, err := h.service.Signup(r.Context(), model.SignupRequest{
		Email:      body.String("email"),
		Password:   body.String("password"),
		Username:   body.String("username"),
		Phone:      body.String("phone"),
		Newsletter: body.Bool("newsletter"),
		Avatar:     avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /user/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, 1<<20) // 1MB
	if err != nil {
		writeBodyError(w, err)
		return
	}

	resp, err := h.service.Login(r.Context(), model.LoginRequest{
		Email:    body.String("email"),
		Password: body.String("password"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
