package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type MessageRepository interface {
	List(status string) ([]*model.Message, error)
	ByID(id int64) (*model.Message, error)
	Create(m *model.Message) error
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

// List returns messages newest first, optionally filtered by status.
func (r *messageRepository) List(status string) ([]*model.Message, error) {
	messages := []*model.Message{}
	var err error
	if status == "" {
		err = r.db.Select(&messages, `SELECT * FROM messages ORDER BY created_at DESC, id DESC`)
	} else {
		err = r.db.Select(&messages, `SELECT * FROM messages WHERE status = $1 ORDER BY created_at DESC, id DESC`, status)
	}
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ByID(id int64) (*model.Message, error) {
	m := &model.Message{}
	err := r.db.Get(m, `SELECT * FROM messages WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *messageRepository) Create(m *model.Message) error {
	query := `INSERT INTO messages (name, email, phone, subject, body, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.db.Get(&m.ID, query, m.Name, m.Email, m.Phone, m.Subject, m.Body, m.Status, m.CreatedAt)
}

func (r *messageRepository) UpdateStatus(id int64, status string) error {
	return expectOne(r.db.Exec(`UPDATE messages SET status = $1 WHERE id = $2`, status, id))
}

func (r *messageRepository) Delete(id int64) error {
	return deleteByID(r.db, "messages", id)
}

type QuoteRepository interface {
	List(status string) ([]*model.Quote, error)
	ByID(id int64) (*model.Quote, error)
	Create(q *model.Quote) error
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
}

type quoteRepository struct {
	db *sqlx.DB
}

func NewQuoteRepository(db *sqlx.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) List(status string) ([]*model.Quote, error) {
	quotes := []*model.Quote{}
	var err error
	if status == "" {
		err = r.db.Select(&quotes, `SELECT * FROM quotes ORDER BY created_at DESC, id DESC`)
	} else {
		err = r.db.Select(&quotes, `SELECT * FROM quotes WHERE status = $1 ORDER BY created_at DESC, id DESC`, status)
	}
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepository) ByID(id int64) (*model.Quote, error) {
	q := &model.Quote{}
	err := r.db.Get(q, `SELECT * FROM quotes WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

func (r *quoteRepository) Create(q *model.Quote) error {
	query := `INSERT INTO quotes (name, email, company, service, budget, details, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	return r.db.Get(&q.ID, query, q.Name, q.Email, q.Company, q.Service, q.Budget, q.Details, q.Status, q.CreatedAt)
}

func (r *quoteRepository) UpdateStatus(id int64, status string) error {
	return expectOne(r.db.Exec(`UPDATE quotes SET status = $1 WHERE id = $2`, status, id))
}

func (r *quoteRepository) Delete(id int64) error {
	return deleteByID(r.db, "quotes", id)
}
