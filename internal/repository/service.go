package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type ServiceRepository interface {
	List() ([]*model.Service, error)
	ByID(id int64) (*model.Service, error)
	Create(s *model.Service) error
	Update(s *model.Service) error
	Delete(id int64) error
}

type serviceRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) List() ([]*model.Service, error) {
	services := []*model.Service{}
	err := r.db.Select(&services, `SELECT * FROM services ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) ByID(id int64) (*model.Service, error) {
	s := &model.Service{}
	err := r.db.Get(s, `SELECT * FROM services WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *serviceRepository) Create(s *model.Service) error {
	query := `INSERT INTO services (title, title_fr, description, description_fr, icon, image, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return r.db.Get(&s.ID, query,
		s.Title, s.TitleFr, s.Description, s.DescriptionFr, s.Icon, s.Image, s.SortOrder, s.CreatedAt, s.UpdatedAt)
}

func (r *serviceRepository) Update(s *model.Service) error {
	query := `UPDATE services SET title = $1, title_fr = $2, description = $3, description_fr = $4, icon = $5, image = $6, sort_order = $7, updated_at = $8
	          WHERE id = $9`

	return expectOne(r.db.Exec(query,
		s.Title, s.TitleFr, s.Description, s.DescriptionFr, s.Icon, s.Image, s.SortOrder, s.UpdatedAt, s.ID))
}

func (r *serviceRepository) Delete(id int64) error {
	return deleteByID(r.db, "services", id)
}
