package service

import (
	"time"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/markdown"
	"github.com/templui/corpsite/internal/model"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/upload"
	"github.com/templui/corpsite/internal/validation"
)

// Input fields are pointers: nil means the request did not send the field.

type ServiceInput struct {
	Title         *string
	TitleFr       *string
	Description   *string
	DescriptionFr *string
	Icon          *string
	SortOrder     *int
	Image         *formdata.File
}

type ProjectInput struct {
	Title         *string
	TitleFr       *string
	Description   *string
	DescriptionFr *string
	Client        *string
	Category      *string
	URL           *string
	Featured      *bool
	Image         *formdata.File
}

type TeamMemberInput struct {
	Name       *string
	Position   *string
	PositionFr *string
	Bio        *string
	BioFr      *string
	LinkedIn   *string
	SortOrder  *int
	Photo      *formdata.File
}

type TestimonialInput struct {
	Author    *string
	Company   *string
	Content   *string
	ContentFr *string
	Rating    *int
	Photo     *formdata.File
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// CatalogService manages the offerings listed on the services page.
type CatalogService struct {
	repo  repository.ServiceRepository
	media *MediaService
	md    *markdown.Parser
	now   func() time.Time
}

func NewCatalogService(repo repository.ServiceRepository, media *MediaService, md *markdown.Parser) *CatalogService {
	return &CatalogService{repo: repo, media: media, md: md, now: time.Now}
}

func (s *CatalogService) decorate(svc *model.Service) *model.Service {
	svc.ImageURL = s.media.URL(svc.Image)
	svc.DescriptionHTML = s.md.HTML(svc.Description)
	svc.DescriptionFrHTML = s.md.HTML(svc.DescriptionFr)
	return svc
}

func (s *CatalogService) List() ([]*model.Service, error) {
	services, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		s.decorate(svc)
	}
	return services, nil
}

func (s *CatalogService) ByID(id int64) (*model.Service, error) {
	svc, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(svc), nil
}

func (s *CatalogService) apply(svc *model.Service, in ServiceInput) error {
	set(&svc.Title, in.Title)
	set(&svc.TitleFr, in.TitleFr)
	set(&svc.Description, in.Description)
	set(&svc.DescriptionFr, in.DescriptionFr)
	set(&svc.Icon, in.Icon)
	set(&svc.SortOrder, in.SortOrder)
	return validation.Required("title", svc.Title, 200)
}

func (s *CatalogService) Create(in ServiceInput) (*model.Service, error) {
	svc := &model.Service{}
	err := s.apply(svc, in)
	if err != nil {
		return nil, err
	}

	stored, _, err := s.media.replace("image", in.Image, upload.DirServices, &svc.Image)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	err = s.repo.Create(svc)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	return s.decorate(svc), nil
}

func (s *CatalogService) Update(id int64, in ServiceInput) (*model.Service, error) {
	svc, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	err = s.apply(svc, in)
	if err != nil {
		return nil, err
	}

	stored, previous, err := s.media.replace("image", in.Image, upload.DirServices, &svc.Image)
	if err != nil {
		return nil, err
	}
	svc.UpdatedAt = s.now().UTC()

	err = s.repo.Update(svc)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	s.media.Discard(previous)
	return s.decorate(svc), nil
}

func (s *CatalogService) Delete(id int64) error {
	svc, err := s.repo.ByID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(id)
	if err != nil {
		return err
	}
	s.media.Discard(svc.Image)
	return nil
}

type ProjectService struct {
	repo  repository.ProjectRepository
	media *MediaService
	md    *markdown.Parser
	now   func() time.Time
}

func NewProjectService(repo repository.ProjectRepository, media *MediaService, md *markdown.Parser) *ProjectService {
	return &ProjectService{repo: repo, media: media, md: md, now: time.Now}
}

func (s *ProjectService) decorate(p *model.Project) *model.Project {
	p.ImageURL = s.media.URL(p.Image)
	p.DescriptionHTML = s.md.HTML(p.Description)
	p.DescriptionFrHTML = s.md.HTML(p.DescriptionFr)
	return p
}

func (s *ProjectService) List(featuredOnly bool) ([]*model.Project, error) {
	projects, err := s.repo.List(featuredOnly)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		s.decorate(p)
	}
	return projects, nil
}

func (s *ProjectService) ByID(id int64) (*model.Project, error) {
	p, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(p), nil
}

func (s *ProjectService) apply(p *model.Project, in ProjectInput) error {
	set(&p.Title, in.Title)
	set(&p.TitleFr, in.TitleFr)
	set(&p.Description, in.Description)
	set(&p.DescriptionFr, in.DescriptionFr)
	set(&p.Client, in.Client)
	set(&p.Category, in.Category)
	set(&p.URL, in.URL)
	set(&p.Featured, in.Featured)

	err := validation.Required("title", p.Title, 200)
	if err != nil {
		return err
	}
	return validation.URL("url", p.URL)
}

func (s *ProjectService) Create(in ProjectInput) (*model.Project, error) {
	p := &model.Project{}
	err := s.apply(p, in)
	if err != nil {
		return nil, err
	}

	stored, _, err := s.media.replace("image", in.Image, upload.DirProjects, &p.Image)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.repo.Create(p)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	return s.decorate(p), nil
}

func (s *ProjectService) Update(id int64, in ProjectInput) (*model.Project, error) {
	p, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	err = s.apply(p, in)
	if err != nil {
		return nil, err
	}

	stored, previous, err := s.media.replace("image", in.Image, upload.DirProjects, &p.Image)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()

	err = s.repo.Update(p)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	s.media.Discard(previous)
	return s.decorate(p), nil
}

func (s *ProjectService) Delete(id int64) error {
	p, err := s.repo.ByID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(id)
	if err != nil {
		return err
	}
	s.media.Discard(p.Image)
	return nil
}

type TeamService struct {
	repo  repository.TeamRepository
	media *MediaService
	now   func() time.Time
}

func NewTeamService(repo repository.TeamRepository, media *MediaService) *TeamService {
	return &TeamService{repo: repo, media: media, now: time.Now}
}

func (s *TeamService) decorate(m *model.TeamMember) *model.TeamMember {
	m.PhotoURL = s.media.URL(m.Photo)
	return m
}

func (s *TeamService) List() ([]*model.TeamMember, error) {
	members, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		s.decorate(m)
	}
	return members, nil
}

func (s *TeamService) ByID(id int64) (*model.TeamMember, error) {
	m, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(m), nil
}

func (s *TeamService) apply(m *model.TeamMember, in TeamMemberInput) error {
	set(&m.Name, in.Name)
	set(&m.Position, in.Position)
	set(&m.PositionFr, in.PositionFr)
	set(&m.Bio, in.Bio)
	set(&m.BioFr, in.BioFr)
	set(&m.LinkedIn, in.LinkedIn)
	set(&m.SortOrder, in.SortOrder)

	err := validation.Required("name", m.Name, 100)
	if err != nil {
		return err
	}
	return validation.URL("linkedin", m.LinkedIn)
}

func (s *TeamService) Create(in TeamMemberInput) (*model.TeamMember, error) {
	m := &model.TeamMember{}
	err := s.apply(m, in)
	if err != nil {
		return nil, err
	}

	stored, _, err := s.media.replace("photo", in.Photo, upload.DirTeam, &m.Photo)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	err = s.repo.Create(m)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	return s.decorate(m), nil
}

func (s *TeamService) Update(id int64, in TeamMemberInput) (*model.TeamMember, error) {
	m, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	err = s.apply(m, in)
	if err != nil {
		return nil, err
	}

	stored, previous, err := s.media.replace("photo", in.Photo, upload.DirTeam, &m.Photo)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt = s.now().UTC()

	err = s.repo.Update(m)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	s.media.Discard(previous)
	return s.decorate(m), nil
}

func (s *TeamService) Delete(id int64) error {
	m, err := s.repo.ByID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(id)
	if err != nil {
		return err
	}
	s.media.Discard(m.Photo)
	return nil
}

type TestimonialService struct {
	repo  repository.TestimonialRepository
	media *MediaService
	now   func() time.Time
}

func NewTestimonialService(repo repository.TestimonialRepository, media *MediaService) *TestimonialService {
	return &TestimonialService{repo: repo, media: media, now: time.Now}
}

func (s *TestimonialService) decorate(t *model.Testimonial) *model.Testimonial {
	t.PhotoURL = s.media.URL(t.Photo)
	return t
}

func (s *TestimonialService) List() ([]*model.Testimonial, error) {
	testimonials, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for _, t := range testimonials {
		s.decorate(t)
	}
	return testimonials, nil
}

func (s *TestimonialService) ByID(id int64) (*model.Testimonial, error) {
	t, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(t), nil
}

func (s *TestimonialService) apply(t *model.Testimonial, in TestimonialInput) error {
	set(&t.Author, in.Author)
	set(&t.Company, in.Company)
	set(&t.Content, in.Content)
	set(&t.ContentFr, in.ContentFr)
	set(&t.Rating, in.Rating)

	err := validation.Required("author", t.Author, 100)
	if err != nil {
		return err
	}
	err = validation.Required("content", t.Content, 2000)
	if err != nil {
		return err
	}
	return validation.Rating(t.Rating)
}

func (s *TestimonialService) Create(in TestimonialInput) (*model.Testimonial, error) {
	t := &model.Testimonial{Rating: 5}
	err := s.apply(t, in)
	if err != nil {
		return nil, err
	}

	stored, _, err := s.media.replace("photo", in.Photo, upload.DirTestimonials, &t.Photo)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = s.now().UTC()

	err = s.repo.Create(t)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	return s.decorate(t), nil
}

func (s *TestimonialService) Update(id int64, in TestimonialInput) (*model.Testimonial, error) {
	t, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	err = s.apply(t, in)
	if err != nil {
		return nil, err
	}

	stored, previous, err := s.media.replace("photo", in.Photo, upload.DirTestimonials, &t.Photo)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(t)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	s.media.Discard(previous)
	return s.decorate(t), nil
}

func (s *TestimonialService) Delete(id int64) error {
	t, err := s.repo.ByID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(id)
	if err != nil {
		return err
	}
	s.media.Discard(t.Photo)
	return nil
}
