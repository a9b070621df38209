package handler

import (
	"net/http"

	"github.com/templui/corpsite/internal/ctxkeys"
	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/middleware"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/service"
	"github.com/templui/corpsite/internal/token"
)

type UserHandler struct {
	binder
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService, maxMemory int64) *UserHandler {
	return &UserHandler{binder: binder{maxMemory: maxMemory}, userService: userService}
}

func userInput(form *formdata.Form) service.UserInput {
	in := service.UserInput{
		Name:  optString(form, "name"),
		Email: optString(form, "email"),
	}
	// Passwords are taken untrimmed; an empty one means "unchanged".
	if pw := form.Fields["password"]; pw != "" {
		in.Password = &pw
	}
	if role, ok := form.Lookup("role"); ok && role != "" {
		r := token.Role(role)
		in.Role = &r
	}
	return in
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	user, err := h.userService.ByID(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.userService.Create(userInput(form))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	caller, _ := ctxkeys.Caller(r.Context())
	user, err := h.userService.Update(caller, id, userInput(form))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, user)
}

// Delete runs behind AdminNotSelf, so the self-delete case never gets here.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.userService.Delete(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}
