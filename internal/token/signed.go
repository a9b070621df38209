package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SignedCodec issues HS256 JWTs carrying the same claim names as PlainCodec.
type SignedCodec struct {
	secret []byte
	parser *jwt.Parser
}

func NewSignedCodec(secret string) *SignedCodec {
	return &SignedCodec{
		secret: []byte(secret),
		// Expiry is checked by the gate, not here.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithJSONNumber(),
		),
	}
}

func (c *SignedCodec) Issue(claims Claims) (string, error) {
	mc := jwt.MapClaims{
		"user_id": claims.SubjectID,
		"email":   claims.Email,
		"role":    string(claims.Role),
		"exp":     claims.ExpiresAt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

func (c *SignedCodec) Decode(tokenString string) (Claims, error) {
	mc := jwt.MapClaims{}
	_, err := c.parser.ParseWithClaims(tokenString, mc, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return claimsFromMap(mc)
}
