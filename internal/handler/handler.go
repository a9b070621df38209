// Package handler holds the JSON endpoint handlers. Access checks happen in
// middleware.Guard before a handler runs; handlers only bind, call a service
// and respond.
package handler

import (
	"net/http"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/validation"
)

// binder turns a request body into a formdata.Form.
type binder struct {
	maxMemory int64
}

func (b binder) parse(r *http.Request) (*formdata.Form, error) {
	return formdata.Parse(r, b.maxMemory)
}

func optString(form *formdata.Form, key string) *string {
	v, ok := form.Lookup(key)
	if !ok {
		return nil
	}
	return &v
}

func optInt(form *formdata.Form, key string) (*int, error) {
	n, ok, err := form.Int(key)
	if err != nil {
		return nil, validation.Invalid(key, "%s must be an integer", key)
	}
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func optBool(form *formdata.Form, key string) *bool {
	b, ok := form.Bool(key)
	if !ok {
		return nil
	}
	return &b
}
