package validation

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templui/corpsite/internal/formdata"
)

func TestErrorsMatchErrInvalid(t *testing.T) {
	err := Required("title", "  ", 100)
	require.ErrorIs(t, err, ErrInvalid)
	require.Equal(t, "title is required", err.Error())

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "title", fe.Field)
}

func TestRequired(t *testing.T) {
	require.NoError(t, Required("name", "Élodie", 6))
	require.Error(t, Required("name", "Élodie!", 6))
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("jo@example.com"))
	for _, bad := range []string{"", "jo", "Jo <jo@example.com>", strings.Repeat("a", 250) + "@b.co"} {
		require.ErrorIs(t, ValidateEmail(bad), ErrInvalid, bad)
	}
	require.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("correct horse battery"))
	require.Error(t, ValidatePassword("short"))
	require.Error(t, ValidatePassword("MyPassword2026!"))
	require.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestRatingAndURL(t *testing.T) {
	require.NoError(t, Rating(5))
	require.Error(t, Rating(0))
	require.Error(t, Rating(6))

	require.NoError(t, URL("url", ""))
	require.NoError(t, URL("url", "https://acme.test"))
	require.Error(t, URL("url", "javascript:alert(1)"))
}

func fileFromForm(t *testing.T, filename string, content []byte) *formdata.File {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/services", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	form, err := formdata.Parse(r, 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { form.Close() })
	return form.File("image")
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateImage(t *testing.T) {
	require.NoError(t, ValidateImage("image", fileFromForm(t, "logo.png", pngHeader)))

	err := ValidateImage("image", fileFromForm(t, "logo.png", []byte("#!/bin/sh\necho hi")))
	require.ErrorIs(t, err, ErrInvalid)

	err = ValidateImage("image", fileFromForm(t, "logo.exe", pngHeader))
	require.ErrorIs(t, err, ErrInvalid)

	err = ValidateImage("image", fileFromForm(t, "empty.png", nil))
	require.ErrorIs(t, err, ErrInvalid)
}
