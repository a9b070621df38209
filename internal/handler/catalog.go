package handler

import (
	"net/http"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/middleware"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/service"
)

type ServiceHandler struct {
	binder
	catalog *service.CatalogService
}

func NewServiceHandler(catalog *service.CatalogService, maxMemory int64) *ServiceHandler {
	return &ServiceHandler{binder: binder{maxMemory: maxMemory}, catalog: catalog}
}

func serviceInput(form *formdata.Form) (service.ServiceInput, error) {
	sortOrder, err := optInt(form, "sort_order")
	if err != nil {
		return service.ServiceInput{}, err
	}
	return service.ServiceInput{
		Title:         optString(form, "title"),
		TitleFr:       optString(form, "title_fr"),
		Description:   optString(form, "description"),
		DescriptionFr: optString(form, "description_fr"),
		Icon:          optString(form, "icon"),
		SortOrder:     sortOrder,
		Image:         form.File("image"),
	}, nil
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, services)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	svc, err := h.catalog.ByID(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, svc)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	in, err := serviceInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	svc, err := h.catalog.Create(in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, svc)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	in, err := serviceInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	svc, err := h.catalog.Update(id, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, svc)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.catalog.Delete(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}

type ProjectHandler struct {
	binder
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService, maxMemory int64) *ProjectHandler {
	return &ProjectHandler{binder: binder{maxMemory: maxMemory}, projects: projects}
}

func projectInput(form *formdata.Form) service.ProjectInput {
	return service.ProjectInput{
		Title:         optString(form, "title"),
		TitleFr:       optString(form, "title_fr"),
		Description:   optString(form, "description"),
		DescriptionFr: optString(form, "description_fr"),
		Client:        optString(form, "client"),
		Category:      optString(form, "category"),
		URL:           optString(form, "url"),
		Featured:      optBool(form, "featured"),
		Image:         form.File("image"),
	}
}

// List accepts ?featured=1 to return featured projects only.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	featured := r.URL.Query().Get("featured")
	projects, err := h.projects.List(featured == "1" || featured == "true")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	p, err := h.projects.ByID(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.projects.Create(projectInput(form))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	p, err := h.projects.Update(id, projectInput(form))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.projects.Delete(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}

type TeamHandler struct {
	binder
	team *service.TeamService
}

func NewTeamHandler(team *service.TeamService, maxMemory int64) *TeamHandler {
	return &TeamHandler{binder: binder{maxMemory: maxMemory}, team: team}
}

func teamMemberInput(form *formdata.Form) (service.TeamMemberInput, error) {
	sortOrder, err := optInt(form, "sort_order")
	if err != nil {
		return service.TeamMemberInput{}, err
	}
	return service.TeamMemberInput{
		Name:       optString(form, "name"),
		Position:   optString(form, "position"),
		PositionFr: optString(form, "position_fr"),
		Bio:        optString(form, "bio"),
		BioFr:      optString(form, "bio_fr"),
		LinkedIn:   optString(form, "linkedin"),
		SortOrder:  sortOrder,
		Photo:      form.File("photo"),
	}, nil
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.team.List()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, members)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	m, err := h.team.ByID(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, m)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	in, err := teamMemberInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.team.Create(in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, m)
}

// Update accepts multipart bodies on PUT; those go through the hand decoder.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	in, err := teamMemberInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.team.Update(id, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, m)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.team.Delete(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}

type TestimonialHandler struct {
	binder
	testimonials *service.TestimonialService
}

func NewTestimonialHandler(testimonials *service.TestimonialService, maxMemory int64) *TestimonialHandler {
	return &TestimonialHandler{binder: binder{maxMemory: maxMemory}, testimonials: testimonials}
}

func testimonialInput(form *formdata.Form) (service.TestimonialInput, error) {
	rating, err := optInt(form, "rating")
	if err != nil {
		return service.TestimonialInput{}, err
	}
	return service.TestimonialInput{
		Author:    optString(form, "author"),
		Company:   optString(form, "company"),
		Content:   optString(form, "content"),
		ContentFr: optString(form, "content_fr"),
		Rating:    rating,
		Photo:     form.File("photo"),
	}, nil
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.testimonials.List()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, list)
}

func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.testimonials.ByID(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, t)
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	in, err := testimonialInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.testimonials.Create(in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, t)
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	in, err := testimonialInput(form)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.testimonials.Update(id, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, t)
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.testimonials.Delete(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}
