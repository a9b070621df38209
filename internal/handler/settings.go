package handler

import (
	"net/http"

	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/service"
)

type SettingsHandler struct {
	binder
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService, maxMemory int64) *SettingsHandler {
	return &SettingsHandler{binder: binder{maxMemory: maxMemory}, settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.All()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, all)
}

// Update upserts every sent field; a "logo" file part replaces the logo.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	all, err := h.settings.Update(form.Fields, form.File("logo"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, all)
}
