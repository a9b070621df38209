package service

import (
	"log/slog"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/upload"
	"github.com/templui/corpsite/internal/validation"
)

// MediaService validates and stores images attached to records.
type MediaService struct {
	persister *upload.Persister
}

func NewMediaService(persister *upload.Persister) *MediaService {
	return &MediaService{persister: persister}
}

// Store validates f as an image and persists it below subdir. A zero-byte
// part has nothing to sniff and is stored as an empty file.
func (s *MediaService) Store(field string, f *formdata.File, subdir string) (string, error) {
	if f.Size > 0 {
		err := validation.ValidateImage(field, f)
		if err != nil {
			return "", err
		}
	}
	return s.persister.PersistFile(f, subdir)
}

// Discard removes a stored file. Failures are logged, the file may already be gone.
func (s *MediaService) Discard(rel string) {
	err := s.persister.Remove(rel)
	if err != nil {
		slog.Warn("failed to delete upload", "path", rel, "error", err)
	}
}

func (s *MediaService) URL(rel string) string {
	return s.persister.URL(rel)
}

// replace stores f when present and reports the old path to discard once
// the record update succeeded.
func (s *MediaService) replace(field string, f *formdata.File, subdir string, current *string) (stored, previous string, err error) {
	if f == nil {
		return "", "", nil
	}
	stored, err = s.Store(field, f, subdir)
	if err != nil {
		return "", "", err
	}
	previous = *current
	*current = stored
	return stored, previous, nil
}
