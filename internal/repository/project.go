package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type ProjectRepository interface {
	List(featuredOnly bool) ([]*model.Project, error)
	ByID(id int64) (*model.Project, error)
	Create(p *model.Project) error
	Update(p *model.Project) error
	Delete(id int64) error
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(featuredOnly bool) ([]*model.Project, error) {
	query := `SELECT * FROM projects ORDER BY featured DESC, created_at DESC, id DESC`
	if featuredOnly {
		query = `SELECT * FROM projects WHERE featured = TRUE ORDER BY created_at DESC, id DESC`
	}

	projects := []*model.Project{}
	err := r.db.Select(&projects, query)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ByID(id int64) (*model.Project, error) {
	p := &model.Project{}
	err := r.db.Get(p, `SELECT * FROM projects WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *projectRepository) Create(p *model.Project) error {
	query := `INSERT INTO projects (title, title_fr, description, description_fr, client, category, image, url, featured, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	return r.db.Get(&p.ID, query,
		p.Title, p.TitleFr, p.Description, p.DescriptionFr, p.Client, p.Category, p.Image, p.URL, p.Featured, p.CreatedAt, p.UpdatedAt)
}

func (r *projectRepository) Update(p *model.Project) error {
	query := `UPDATE projects SET title = $1, title_fr = $2, description = $3, description_fr = $4, client = $5, category = $6, image = $7, url = $8, featured = $9, updated_at = $10
	          WHERE id = $11`

	return expectOne(r.db.Exec(query,
		p.Title, p.TitleFr, p.Description, p.DescriptionFr, p.Client, p.Category, p.Image, p.URL, p.Featured, p.UpdatedAt, p.ID))
}

func (r *projectRepository) Delete(id int64) error {
	return deleteByID(r.db, "projects", id)
}
