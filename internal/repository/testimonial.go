package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type TestimonialRepository interface {
	List() ([]*model.Testimonial, error)
	ByID(id int64) (*model.Testimonial, error)
	Create(t *model.Testimonial) error
	Update(t *model.Testimonial) error
	Delete(id int64) error
}

type testimonialRepository struct {
	db *sqlx.DB
}

func NewTestimonialRepository(db *sqlx.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) List() ([]*model.Testimonial, error) {
	testimonials := []*model.Testimonial{}
	err := r.db.Select(&testimonials, `SELECT * FROM testimonials ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *testimonialRepository) ByID(id int64) (*model.Testimonial, error) {
	t := &model.Testimonial{}
	err := r.db.Get(t, `SELECT * FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *testimonialRepository) Create(t *model.Testimonial) error {
	query := `INSERT INTO testimonials (author, company, content, content_fr, rating, photo, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.db.Get(&t.ID, query, t.Author, t.Company, t.Content, t.ContentFr, t.Rating, t.Photo, t.CreatedAt)
}

func (r *testimonialRepository) Update(t *model.Testimonial) error {
	query := `UPDATE testimonials SET author = $1, company = $2, content = $3, content_fr = $4, rating = $5, photo = $6
	          WHERE id = $7`

	return expectOne(r.db.Exec(query, t.Author, t.Company, t.Content, t.ContentFr, t.Rating, t.Photo, t.ID))
}

func (r *testimonialRepository) Delete(id int64) error {
	return deleteByID(r.db, "testimonials", id)
}
