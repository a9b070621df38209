package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type TeamRepository interface {
	List() ([]*model.TeamMember, error)
	ByID(id int64) (*model.TeamMember, error)
	Create(m *model.TeamMember) error
	Update(m *model.TeamMember) error
	Delete(id int64) error
}

type teamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) List() ([]*model.TeamMember, error) {
	members := []*model.TeamMember{}
	err := r.db.Select(&members, `SELECT * FROM team_members ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) ByID(id int64) (*model.TeamMember, error) {
	m := &model.TeamMember{}
	err := r.db.Get(m, `SELECT * FROM team_members WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *teamRepository) Create(m *model.TeamMember) error {
	query := `INSERT INTO team_members (name, position, position_fr, bio, bio_fr, photo, linkedin, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

	return r.db.Get(&m.ID, query,
		m.Name, m.Position, m.PositionFr, m.Bio, m.BioFr, m.Photo, m.LinkedIn, m.SortOrder, m.CreatedAt, m.UpdatedAt)
}

func (r *teamRepository) Update(m *model.TeamMember) error {
	query := `UPDATE team_members SET name = $1, position = $2, position_fr = $3, bio = $4, bio_fr = $5, photo = $6, linkedin = $7, sort_order = $8, updated_at = $9
	          WHERE id = $10`

	return expectOne(r.db.Exec(query,
		m.Name, m.Position, m.PositionFr, m.Bio, m.BioFr, m.Photo, m.LinkedIn, m.SortOrder, m.UpdatedAt, m.ID))
}

func (r *teamRepository) Delete(id int64) error {
	return deleteByID(r.db, "team_members", id)
}
