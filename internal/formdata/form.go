package formdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// MaxBodyBytes caps bodies read into memory by the hand decoder and JSON binding.
const MaxBodyBytes = 32 << 20

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrInvalidJSON            = errors.New("invalid JSON body")
)

// File is an uploaded file, backed either by the native multipart spool or by
// a temp file the hand decoder wrote.
type File struct {
	FieldName   string
	Filename    string
	ContentType string
	Size        int64

	header   *multipart.FileHeader
	tempPath string
}

// Open returns the file content. The caller closes it.
func (f *File) Open() (io.ReadCloser, error) {
	if f.header != nil {
		return f.header.Open()
	}
	return os.Open(f.tempPath)
}

// Form is a request body flattened to single-valued fields plus files.
// When a name repeats, the first occurrence wins.
type Form struct {
	Fields map[string]string
	Files  map[string]*File

	cleanup []func() error
}

func newForm() *Form {
	return &Form{
		Fields: make(map[string]string),
		Files:  make(map[string]*File),
	}
}

// Get returns a trimmed field value, or "" when absent.
func (f *Form) Get(key string) string {
	return strings.TrimSpace(f.Fields[key])
}

// Lookup returns a trimmed field value and whether the field was sent at all.
func (f *Form) Lookup(key string) (string, bool) {
	v, ok := f.Fields[key]
	return strings.TrimSpace(v), ok
}

// Int parses a field as an integer. Absent fields return ok=false and no error.
func (f *Form) Int(key string) (n int, ok bool, err error) {
	v, ok := f.Lookup(key)
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be an integer", key)
	}
	return n, true, nil
}

// Bool parses a field as a boolean ("1", "true", "on" are true).
func (f *Form) Bool(key string) (b bool, ok bool) {
	v, ok := f.Lookup(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true, true
	}
	return false, true
}

// File returns the uploaded file for key, or nil.
func (f *Form) File(key string) *File {
	return f.Files[key]
}

// Close releases every backing file. It is safe to call more than once.
func (f *Form) Close() error {
	var errs []error
	for _, fn := range f.cleanup {
		if err := fn(); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	f.cleanup = nil
	return errors.Join(errs...)
}

// Parse binds the request body. Multipart bodies on POST go through the
// native parser; on any other verb they are decoded by hand. The returned
// form must be closed by the caller, including on error paths after Parse.
func Parse(r *http.Request, maxMemory int64) (*Form, error) {
	form := newForm()

	ct := r.Header.Get("Content-Type")
	if ct == "" || r.Body == nil || r.Body == http.NoBody {
		return form, nil
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return form, fmt.Errorf("%w: %v", ErrUnsupportedContentType, err)
	}

	switch {
	case mediaType == "application/json":
		err = bindJSON(form, r)
	case mediaType == "application/x-www-form-urlencoded":
		err = bindURLEncoded(form, r)
	case mediaType == "multipart/form-data" && r.Method == http.MethodPost:
		err = bindNativeMultipart(form, r, maxMemory)
	case mediaType == "multipart/form-data":
		err = bindDecodedMultipart(form, r, ct)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
	if err != nil {
		closeErr := form.Close()
		return form, errors.Join(err, closeErr)
	}
	return form, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

func bindJSON(form *Form, r *http.Request) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var m map[string]any
	err = dec.Decode(&m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	for k, v := range m {
		switch val := v.(type) {
		case nil:
			form.Fields[k] = ""
		case string:
			form.Fields[k] = val
		case json.Number:
			form.Fields[k] = val.String()
		case bool:
			form.Fields[k] = strconv.FormatBool(val)
		default:
			b, _ := json.Marshal(val)
			form.Fields[k] = string(b)
		}
	}
	return nil
}

func bindURLEncoded(form *Form, r *http.Request) error {
	err := r.ParseForm()
	if err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	for k, v := range r.PostForm {
		if len(v) > 0 {
			form.Fields[k] = v[0]
		}
	}
	return nil
}

func bindNativeMultipart(form *Form, r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: %v", ErrBadBoundary, err)
	}
	mf := r.MultipartForm
	form.cleanup = append(form.cleanup, mf.RemoveAll)

	for k, v := range mf.Value {
		if len(v) > 0 {
			form.Fields[k] = v[0]
		}
	}
	for k, headers := range mf.File {
		if len(headers) == 0 {
			continue
		}
		h := headers[0]
		form.Files[k] = &File{
			FieldName:   k,
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			header:      h,
		}
	}
	return nil
}

func bindDecodedMultipart(form *Form, r *http.Request, contentType string) error {
	boundary, err := BoundaryFromContentType(contentType)
	if err != nil {
		return err
	}
	body, err := readBody(r)
	if err != nil {
		return err
	}
	parts, err := Decode(body, boundary)
	if err != nil {
		return err
	}

	for _, p := range parts {
		if !p.IsFile() || noFileChosen(p) {
			if _, seen := form.Fields[p.Name]; !seen {
				form.Fields[p.Name] = p.Value()
			}
			continue
		}
		if _, seen := form.Files[p.Name]; seen {
			continue
		}
		file, err := spool(p)
		if err != nil {
			return err
		}
		form.cleanup = append(form.cleanup, func() error { return os.Remove(file.tempPath) })
		form.Files[p.Name] = file
	}
	return nil
}

// noFileChosen matches the part a browser sends for an empty file input:
// filename="" and no content. mime/multipart binds that as a plain value,
// so it is bound the same way here. A named part with no bytes stays a file.
func noFileChosen(p Part) bool {
	return p.IsFile() && p.Filename == "" && len(p.Data) == 0
}

// spool writes a decoded file part to a temp file straight away so it is
// handled exactly like a natively parsed upload from here on.
func spool(p Part) (*File, error) {
	tmp, err := os.CreateTemp("", "corpsite-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	_, err = tmp.Write(p.Data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	return &File{
		FieldName:   p.Name,
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Size:        int64(len(p.Data)),
		tempPath:    tmp.Name(),
	}, nil
}
