package formdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBoundary = "----WebKitFormBoundary7MA4YWxkTrZu0gW"

var photoBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0xff}

func twoPartBody() []byte {
	var b strings.Builder
	b.WriteString("preamble is ignored\r\n")
	b.WriteString("--" + testBoundary + "\r\n")
	b.WriteString("Content-Disposition: form-data; name=\"name\"\r\n\r\n")
	b.WriteString("Alice\r\n")
	b.WriteString("--" + testBoundary + "\r\n")
	b.WriteString("Content-Disposition: form-data; name=\"photo\"; filename=\"photo.png\"\r\n")
	b.WriteString("Content-Type: image/png\r\n\r\n")
	b.Write(photoBytes)
	b.WriteString("\r\n--" + testBoundary + "--\r\n")
	b.WriteString("epilogue")
	return []byte(b.String())
}

func TestDecode_FieldAndFile(t *testing.T) {
	parts, err := Decode(twoPartBody(), testBoundary)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	field := parts[0]
	require.Equal(t, "name", field.Name)
	require.Equal(t, "Alice", field.Value())
	require.False(t, field.IsFile())
	require.Empty(t, field.Filename)

	file := parts[1]
	require.Equal(t, "photo", file.Name)
	require.True(t, file.IsFile())
	require.Equal(t, "photo.png", file.Filename)
	require.Equal(t, "image/png", file.ContentType)
	require.Len(t, file.Data, 10)
	require.Equal(t, photoBytes, file.Data)
}

func TestDecode_Idempotent(t *testing.T) {
	body := twoPartBody()

	first, err := Decode(body, testBoundary)
	require.NoError(t, err)
	second, err := Decode(body, testBoundary)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	body := twoPartBody()
	parts, err := Decode(body, testBoundary)
	require.NoError(t, err)

	for i := range body {
		body[i] = 0
	}
	require.Equal(t, "Alice", parts[0].Value())
	require.Equal(t, photoBytes, parts[1].Data)
}

func TestDecode_SkipsPartsWithoutName(t *testing.T) {
	body := "--b\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"orphan\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; filename=\"x.txt\"\r\n\r\n" +
		"no name either\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"kept\"\r\n\r\n" +
		"yes\r\n" +
		"--b--\r\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, "kept", parts[0].Name)
}

func TestDecode_ZeroLengthFile(t *testing.T) {
	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"photo\"; filename=\"empty.png\"\r\n\r\n" +
		"\r\n" +
		"--b--\r\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.True(t, parts[0].IsFile())
	require.NotNil(t, parts[0].Data)
	require.Empty(t, parts[0].Data)
}

func TestDecode_EmptyFilenameIsStillAFile(t *testing.T) {
	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"photo\"; filename=\"\"\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		"\r\n" +
		"--b--\r\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.True(t, parts[0].IsFile())
	require.Empty(t, parts[0].Filename)
}

func TestDecode_MultilineFieldKeepsInnerNewlines(t *testing.T) {
	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"bio\"\r\n\r\n" +
		"line one\r\nline two\r\n\r\n" +
		"--b--\r\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Equal(t, "line one\r\nline two\r\n", parts[0].Value())
}

func TestDecode_BareLineFeeds(t *testing.T) {
	body := "--b\n" +
		"Content-Disposition: form-data; name=\"title\"\n\n" +
		"Bonjour\n" +
		"--b--\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, "Bonjour", parts[0].Value())
}

func TestDecode_LenientFilename(t *testing.T) {
	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"photo\"; filename=\"C:\\dir\\my photo.png\"\r\n\r\n" +
		"x\r\n" +
		"--b--\r\n"

	parts, err := Decode([]byte(body), "b")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.True(t, parts[0].IsFile())
	require.Contains(t, parts[0].Filename, "my photo.png")
}

func TestDecode_BoundaryIsOpaque(t *testing.T) {
	// Regex metacharacters and quotes inside the boundary are literal text.
	boundary := `a.b*c+(d)`
	body := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"k\"\r\n\r\n" +
		"v\r\n" +
		"--" + boundary + "--\r\n"

	parts, err := Decode([]byte(body), boundary)
	require.NoError(t, err)
	require.Equal(t, "v", parts[0].Value())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(twoPartBody(), "")
	require.ErrorIs(t, err, ErrBadBoundary)

	_, err = Decode(twoPartBody(), "not-the-boundary")
	require.ErrorIs(t, err, ErrBadBoundary)

	truncated := "--b\r\nContent-Disposition: form-data; name=\"k\"\r\n\r\nvalue\r\n--b\r\nContent-Disposition: form-da"
	_, err = Decode([]byte(truncated), "b")
	require.ErrorIs(t, err, ErrTruncatedPart)

	noHeaderEnd := "--b\r\nContent-Disposition: form-data; name=\"k\"\r\nContent-Type: text/plain\r\nvalue--b--\r\n"
	_, err = Decode([]byte(noHeaderEnd), "b")
	require.ErrorIs(t, err, ErrTruncatedPart)
}

func TestBoundaryFromContentType(t *testing.T) {
	b, err := BoundaryFromContentType(`multipart/form-data; boundary="--abc=="`)
	require.NoError(t, err)
	require.Equal(t, "--abc==", b)

	b, err = BoundaryFromContentType("multipart/form-data; boundary=" + testBoundary)
	require.NoError(t, err)
	require.Equal(t, testBoundary, b)

	_, err = BoundaryFromContentType("multipart/form-data")
	require.ErrorIs(t, err, ErrBadBoundary)

	_, err = BoundaryFromContentType("application/json")
	require.ErrorIs(t, err, ErrBadBoundary)
}
