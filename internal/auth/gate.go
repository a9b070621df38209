// Package auth turns a bearer token on a request into a Caller and decides
// whether that caller may use an endpoint.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/templui/corpsite/internal/token"
)

var (
	ErrMissing   = errors.New("missing bearer token")
	ErrMalformed = errors.New("malformed bearer token")
	ErrExpired   = errors.New("bearer token expired")
)

// TokenSource controls where the gate looks for a token.
type TokenSource int

const (
	// HeaderOnly reads the Authorization header only.
	HeaderOnly TokenSource = iota
	// HeaderOrParam falls back to a "token" query parameter, then a "token" form field.
	HeaderOrParam
)

const tokenParam = "token"

var bearerPattern = regexp.MustCompile(`(?i)^\s*bearer\s+(\S+)\s*$`)

// Request is the part of an HTTP request the gate is allowed to see.
type Request struct {
	Authorization string
	Query         url.Values
	Form          url.Values
}

// RequestFrom builds a gate Request. The form is only consulted when the body
// is urlencoded and has already been parsed or can be parsed without
// consuming a body another reader needs.
func RequestFrom(r *http.Request) Request {
	req := Request{
		Authorization: r.Header.Get("Authorization"),
		Query:         r.URL.Query(),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err == nil {
			req.Form = r.PostForm
		}
	}
	return req
}

// Caller is the identity derived from a validated token for one request.
type Caller struct {
	SubjectID int64      `json:"id"`
	Email     string     `json:"email"`
	Role      token.Role `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == token.RoleAdmin
}

type Gate struct {
	codec token.Codec
	now   func() time.Time
}

func NewGate(codec token.Codec) *Gate {
	return &Gate{codec: codec, now: time.Now}
}

// WithClock returns a copy of the gate that reads time from now.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	return &Gate{codec: g.codec, now: now}
}

// Authenticate extracts and validates the bearer token. It has no side effects.
func (g *Gate) Authenticate(req Request, src TokenSource) (Caller, error) {
	raw, ok := extractToken(req, src)
	if !ok {
		return Caller{}, ErrMissing
	}

	claims, err := g.codec.Decode(raw)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !claims.Role.Valid() {
		return Caller{}, fmt.Errorf("%w: unknown role %q", ErrMalformed, claims.Role)
	}

	if claims.ExpiresAt <= g.now().Unix() {
		return Caller{}, ErrExpired
	}

	return Caller{
		SubjectID: claims.SubjectID,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

func extractToken(req Request, src TokenSource) (string, bool) {
	if m := bearerPattern.FindStringSubmatch(req.Authorization); m != nil {
		return m[1], true
	}
	if src != HeaderOrParam {
		return "", false
	}
	if v := strings.TrimSpace(req.Query.Get(tokenParam)); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(req.Form.Get(tokenParam)); v != "" {
		return v, true
	}
	return "", false
}
