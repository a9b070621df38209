// Package upload stores uploaded files under collision-free names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/storage"
)

var ErrWriteFailed = errors.New("failed to write upload")

// Subdirectories per resource.
const (
	DirServices     = "services"
	DirProjects     = "projects"
	DirTeam         = "team"
	DirTestimonials = "testimonials"
	DirSettings     = "settings"
)

// Descriptor is one file taken from a request body.
type Descriptor struct {
	FieldName        string
	OriginalFilename string
	Content          io.Reader
}

type Persister struct {
	storage storage.Storage
	newID   func() string
}

func NewPersister(st storage.Storage) *Persister {
	return &Persister{
		storage: st,
		newID:   func() string { return uuid.New().String() },
	}
}

// Persist writes the descriptor's content to <subdir>/<unique>_<name> and
// returns that relative path. Nothing is rolled back on failure.
func (p *Persister) Persist(desc Descriptor, subdir string) (string, error) {
	rel := path.Join(subdir, p.newID()+"_"+SanitizeFilename(desc.OriginalFilename))

	err := p.storage.Save(rel, desc.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, desc.FieldName, err)
	}
	return rel, nil
}

// PersistFile persists a file bound by formdata.Parse.
func (p *Persister) PersistFile(f *formdata.File, subdir string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, f.FieldName, err)
	}
	defer rc.Close()

	return p.Persist(Descriptor{
		FieldName:        f.FieldName,
		OriginalFilename: f.Filename,
		Content:          rc,
	}, subdir)
}

// URL resolves a stored relative path to a public URL.
func (p *Persister) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return p.storage.URL(rel)
}

// Remove deletes a previously persisted file.
func (p *Persister) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	return p.storage.Delete(rel)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename keeps the base name, folds accents ("équipe" -> "equipe")
// and replaces anything outside [A-Za-z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	// Browsers on Windows may send the full client path.
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	folded, _, err := transform.String(stripMarks, name)
	if err == nil {
		name = folded
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
