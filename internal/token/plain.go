package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// PlainCodec is the unsigned base64(JSON) format. Anyone who knows the format
// can mint a token for any role; use SignedCodec where that matters.
type PlainCodec struct{}

func (PlainCodec) Issue(claims Claims) (string, error) {
	// Marshalling a struct of ints and strings cannot fail.
	payload, _ := json.Marshal(claims)
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (PlainCodec) Decode(token string) (Claims, error) {
	payload, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var m map[string]any
	err = dec.Decode(&m)
	if err != nil || m == nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object", ErrInvalid)
	}

	return claimsFromMap(m)
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not, since
// tokens travel through query strings as well as headers.
func decodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty token")
	}
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
