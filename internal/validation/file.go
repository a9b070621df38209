package validation

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/templui/corpsite/internal/formdata"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints covers photos, service images and the site logo.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
	MaxSize: 5 << 20,
}

// ValidateImage sniffs the first 512 bytes, so a renamed file is rejected
// whatever Content-Type the client claimed.
func ValidateImage(field string, f *formdata.File) error {
	return validateFile(field, f, ImageConstraints)
}

func validateFile(field string, f *formdata.File, c FileConstraints) error {
	if f.Size == 0 {
		return Invalid(field, "%s is empty", field)
	}
	if f.Size > c.MaxSize {
		return Invalid(field, "%s is too large: maximum size is %d MB", field, c.MaxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !c.AllowedExtensions[ext] {
		return Invalid(field, "%s has an invalid file extension: %q", field, ext)
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(rc, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}

	detected := http.DetectContentType(buffer[:n])
	if !c.AllowedMimeTypes[detected] {
		return Invalid(field, "%s has an invalid file type (detected: %s)", field, detected)
	}
	return nil
}
