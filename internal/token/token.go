// Package token encodes caller claims into bearer strings and decodes them back.
//
// Two codecs share the Codec interface. PlainCodec produces the base64 JSON
// tokens existing admin clients hold; SignedCodec produces HS256 JWTs with the
// same claim names. Neither codec checks expiry on decode: that is left to the
// authentication gate so that expired and malformed tokens stay distinguishable.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid token")

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	// RoleUser is only ever seen on tokens inspected through /api/auth/me.
	RoleUser Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleUser
}

// Claims is the payload carried inside a bearer token.
type Claims struct {
	SubjectID int64  `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

type Codec interface {
	Issue(claims Claims) (string, error)
	Decode(token string) (Claims, error)
}

// NewCodec returns the codec selected by TOKEN_CODEC.
func NewCodec(kind, secret string) (Codec, error) {
	switch kind {
	case "", "plain":
		return PlainCodec{}, nil
	case "jwt":
		if secret == "" {
			return nil, errors.New("jwt codec requires a secret")
		}
		return NewSignedCodec(secret), nil
	default:
		return nil, fmt.Errorf("unknown token codec %q", kind)
	}
}

// claimsFromMap extracts claims from a decoded JSON object. The subject may
// be spelled "id" or "user_id"; both producers exist in the field.
func claimsFromMap(m map[string]any) (Claims, error) {
	var c Claims

	raw, ok := m["id"]
	if !ok || raw == nil {
		raw, ok = m["user_id"]
	}
	if !ok || raw == nil {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	id, err := toInt64(raw)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: subject: %v", ErrInvalid, err)
	}
	c.SubjectID = id

	email, ok := m["email"].(string)
	if !ok || email == "" {
		return Claims{}, fmt.Errorf("%w: missing email", ErrInvalid)
	}
	c.Email = email

	rawExp, ok := m["exp"]
	if !ok || rawExp == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrInvalid)
	}
	exp, err := toInt64(rawExp)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: exp: %v", ErrInvalid, err)
	}
	c.ExpiresAt = exp

	// Role is optional at this layer.
	if role, ok := m["role"].(string); ok {
		c.Role = Role(role)
	}

	return c, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int64(f), nil
}
