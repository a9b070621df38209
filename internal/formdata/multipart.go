// Package formdata binds request bodies (JSON, urlencoded, multipart) into a
// flat set of fields and uploaded files.
//
// net/http only parses multipart bodies through ParseMultipartForm, which the
// admin console never calls on update verbs; multipart PUT bodies are decoded
// here by splitting on the boundary directly.
package formdata

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var (
	ErrBadBoundary   = errors.New("bad multipart boundary")
	ErrTruncatedPart = errors.New("truncated multipart part")
)

// Part is one decoded section of a multipart body.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
	isFile      bool
}

// IsFile reports whether the part carried a filename attribute.
func (p Part) IsFile() bool {
	return p.isFile
}

// Value returns a field part's content as text.
func (p Part) Value() string {
	return string(p.Data)
}

// BoundaryFromContentType returns the boundary attribute of a multipart
// content type verbatim.
func BoundaryFromContentType(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadBoundary, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("%w: content type %q is not multipart", ErrBadBoundary, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", fmt.Errorf("%w: no boundary attribute", ErrBadBoundary)
	}
	return boundary, nil
}

// Decode splits raw on "--"+boundary, drops the preamble and the epilogue,
// and decodes every remaining segment. Parts without a Content-Disposition
// name are skipped. Decode does not look at MIME types or sizes.
func Decode(raw []byte, boundary string) ([]Part, error) {
	if boundary == "" {
		return nil, fmt.Errorf("%w: empty boundary", ErrBadBoundary)
	}

	delim := []byte("--" + boundary)
	segments := bytes.Split(raw, delim)
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: delimiter not found in body", ErrBadBoundary)
	}
	// The last delimiter must be the close delimiter "--boundary--".
	if !bytes.HasPrefix(segments[len(segments)-1], []byte("--")) {
		return nil, fmt.Errorf("%w: missing close delimiter", ErrTruncatedPart)
	}

	var parts []Part
	for _, seg := range segments[1 : len(segments)-1] {
		part, ok, err := decodeSegment(seg)
		if err != nil {
			return nil, err
		}
		if ok {
			parts = append(parts, part)
		}
	}
	return parts, nil
}

func decodeSegment(seg []byte) (Part, bool, error) {
	// The delimiter line ends with CRLF (or a bare LF from sloppy clients).
	seg = trimLeadingNewline(seg)

	headerBlock, body, ok := cutHeaders(seg)
	if !ok {
		return Part{}, false, fmt.Errorf("%w: no header terminator", ErrTruncatedPart)
	}

	var part Part
	for _, line := range splitLines(headerBlock) {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "content-disposition":
			name, filename, hasFilename := parseDisposition(strings.TrimSpace(value))
			part.Name = name
			part.Filename = filename
			part.isFile = hasFilename
		case "content-type":
			part.ContentType = strings.TrimSpace(value)
		}
	}

	if part.Name == "" {
		return Part{}, false, nil
	}

	// The line terminator before the next delimiter belongs to the framing.
	body = trimTrailingNewline(body)

	// Copy so parts do not alias the caller's buffer.
	part.Data = append([]byte{}, body...)
	return part, true, nil
}

// cutHeaders splits a segment at the first blank line.
func cutHeaders(seg []byte) (headers, body []byte, ok bool) {
	crlf := bytes.Index(seg, []byte("\r\n\r\n"))
	lf := bytes.Index(seg, []byte("\n\n"))

	switch {
	case crlf >= 0 && (lf < 0 || crlf <= lf):
		return seg[:crlf], seg[crlf+4:], true
	case lf >= 0:
		return seg[:lf], seg[lf+2:], true
	}

	// A part with headers and no body at all still ends its header block
	// with one newline before the next delimiter.
	if bytes.HasSuffix(seg, []byte("\r\n")) || bytes.HasSuffix(seg, []byte("\n")) {
		trimmed := trimTrailingNewline(seg)
		if len(trimmed) > 0 && !bytes.Contains(trimmed, []byte("\n")) {
			return trimmed, nil, true
		}
	}
	return nil, nil, false
}

// parseDisposition reads name and filename from a Content-Disposition value.
func parseDisposition(value string) (name, filename string, hasFilename bool) {
	_, params, err := mime.ParseMediaType(value)
	if err == nil {
		name = params["name"]
		filename, hasFilename = params["filename"]
		return name, filename, hasFilename
	}

	// Browsers send unescaped quotes and backslashes in filenames that the
	// strict parser rejects; fall back to a lenient attribute scan.
	for _, attr := range strings.Split(value, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(attr), "=")
		if !found {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"`)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "name":
			name = v
		case "filename":
			filename = v
			hasFilename = true
		}
	}
	return name, filename, hasFilename
}

func splitLines(b []byte) []string {
	lines := strings.Split(string(b), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func trimLeadingNewline(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	if bytes.HasPrefix(b, []byte("\n")) {
		return b[1:]
	}
	return b
}

func trimTrailingNewline(b []byte) []byte {
	if bytes.HasSuffix(b, []byte("\r\n")) {
		return b[:len(b)-2]
	}
	if bytes.HasSuffix(b, []byte("\n")) {
		return b[:len(b)-1]
	}
	return b
}
