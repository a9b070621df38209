package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/corpsite/internal/ctxkeys"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/service"
)

type AuthHandler struct {
	binder
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService, maxMemory int64) *AuthHandler {
	return &AuthHandler{
		binder:      binder{maxMemory: maxMemory},
		authService: authService,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(form.Get("email"), form.Fields["password"])
	if err != nil {
		slog.Info("login failed", "email", form.Get("email"), "error", err)
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, result)
}

type meResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Time  int64  `json:"server_time"`
}

// Me echoes the identity the guard derived from the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, _ := ctxkeys.Caller(r.Context())
	respond.OK(w, meResponse{
		ID:    caller.SubjectID,
		Email: caller.Email,
		Role:  string(caller.Role),
		Time:  time.Now().Unix(),
	})
}
