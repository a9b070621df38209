package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/templui/corpsite/internal/token"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGate() *Gate {
	return NewGate(token.PlainCodec{}).WithClock(func() time.Time { return fixedNow })
}

func issue(t *testing.T, id int64, role token.Role, exp time.Time) string {
	t.Helper()
	tok, err := token.PlainCodec{}.Issue(token.Claims{
		SubjectID: id,
		Email:     "user@example.com",
		Role:      role,
		ExpiresAt: exp.Unix(),
	})
	require.NoError(t, err)
	return tok
}

func TestAuthenticate_HeaderVariants(t *testing.T) {
	g := newTestGate()
	tok := issue(t, 5, token.RoleAdmin, fixedNow.Add(time.Hour))

	for _, header := range []string{
		"Bearer " + tok,
		"bearer " + tok,
		"BEARER   " + tok,
		"  Bearer " + tok + "  ",
	} {
		c, err := g.Authenticate(Request{Authorization: header}, HeaderOnly)
		require.NoError(t, err, header)
		require.Equal(t, Caller{SubjectID: 5, Email: "user@example.com", Role: token.RoleAdmin}, c)
	}
}

func TestAuthenticate_Missing(t *testing.T) {
	g := newTestGate()
	tok := issue(t, 5, token.RoleAdmin, fixedNow.Add(time.Hour))

	tests := map[string]Request{
		"no header":        {},
		"prefix removed":   {Authorization: tok},
		"other scheme":     {Authorization: "Basic " + tok},
		"bearer no token":  {Authorization: "Bearer "},
		"query not looked": {Query: url.Values{"token": {tok}}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := g.Authenticate(req, HeaderOnly)
			require.ErrorIs(t, err, ErrMissing)
		})
	}
}

func TestAuthenticate_ParamFallback(t *testing.T) {
	g := newTestGate()
	tok := issue(t, 9, token.RoleEditor, fixedNow.Add(time.Minute))

	c, err := g.Authenticate(Request{Query: url.Values{"token": {tok}}}, HeaderOrParam)
	require.NoError(t, err)
	require.Equal(t, int64(9), c.SubjectID)

	c, err = g.Authenticate(Request{Form: url.Values{"token": {tok}}}, HeaderOrParam)
	require.NoError(t, err)
	require.Equal(t, token.RoleEditor, c.Role)

	// Header wins over params.
	admin := issue(t, 1, token.RoleAdmin, fixedNow.Add(time.Minute))
	c, err = g.Authenticate(Request{Authorization: "Bearer " + admin, Query: url.Values{"token": {tok}}}, HeaderOrParam)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.SubjectID)

	_, err = g.Authenticate(Request{}, HeaderOrParam)
	require.ErrorIs(t, err, ErrMissing)
}

func TestAuthenticate_Malformed(t *testing.T) {
	g := newTestGate()

	_, err := g.Authenticate(Request{Authorization: "Bearer not-a-token"}, HeaderOnly)
	require.ErrorIs(t, err, ErrMalformed)

	noRole := base64.StdEncoding.EncodeToString([]byte(`{"id":1,"email":"a@b.c","exp":4102444800}`))
	_, err = g.Authenticate(Request{Authorization: "Bearer " + noRole}, HeaderOnly)
	require.ErrorIs(t, err, ErrMalformed)

	root := issue(t, 1, token.Role("root"), fixedNow.Add(time.Hour))
	_, err = g.Authenticate(Request{Authorization: "Bearer " + root}, HeaderOnly)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestAuthenticate_Expired(t *testing.T) {
	g := newTestGate()

	past := issue(t, 5, token.RoleAdmin, fixedNow.Add(-time.Second))
	_, err := token.PlainCodec{}.Decode(past)
	require.NoError(t, err, "decode accepts expired tokens")

	_, err = g.Authenticate(Request{Authorization: "Bearer " + past}, HeaderOnly)
	require.ErrorIs(t, err, ErrExpired)

	// Expiry equal to now is not in the future.
	now := issue(t, 5, token.RoleAdmin, fixedNow)
	_, err = g.Authenticate(Request{Authorization: "Bearer " + now}, HeaderOnly)
	require.ErrorIs(t, err, ErrExpired)
}

func TestRequestFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/api/settings?token=q", strings.NewReader("token=f&site_name=Acme"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Authorization", "Bearer h")

	req := RequestFrom(r)
	require.Equal(t, "Bearer h", req.Authorization)
	require.Equal(t, "q", req.Query.Get("token"))
	require.Equal(t, "f", req.Form.Get("token"))

	// The parsed form stays available to handlers.
	require.Equal(t, "Acme", r.PostFormValue("site_name"))

	r = httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"token":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	require.Nil(t, RequestFrom(r).Form)
}

func TestAuthorize_AdminAlwaysAllowed(t *testing.T) {
	admin := Caller{SubjectID: 1, Role: token.RoleAdmin}

	for _, rule := range []Rule{AuthenticatedOnly(), AdminOnly(), AdminOrEditor(), AdminOrSelf(99), AdminNotSelf(99)} {
		require.NoError(t, Authorize(admin, rule), rule.String())
	}
}

func TestAuthorize_Matrix(t *testing.T) {
	editor := Caller{SubjectID: 7, Role: token.RoleEditor}
	legacy := Caller{SubjectID: 8, Role: token.RoleUser}

	tests := []struct {
		name   string
		caller Caller
		rule   Rule
		want   error
	}{
		{"editor authenticated", editor, AuthenticatedOnly(), nil},
		{"editor admin only", editor, AdminOnly(), ErrForbidden},
		{"editor admin or editor", editor, AdminOrEditor(), nil},
		{"legacy admin or editor", legacy, AdminOrEditor(), ErrForbidden},
		{"editor self", editor, AdminOrSelf(7), nil},
		{"editor other", editor, AdminOrSelf(8), ErrForbidden},
		{"legacy self", legacy, AdminOrSelf(8), nil},
		{"editor delete other", editor, AdminNotSelf(8), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.rule)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize_SelfDeleteGuard(t *testing.T) {
	admin := Caller{SubjectID: 1, Role: token.RoleAdmin}

	err := Authorize(admin, AdminNotSelf(1))
	require.ErrorIs(t, err, ErrSelfDelete)
	require.ErrorIs(t, err, ErrForbidden)

	editor := Caller{SubjectID: 4, Role: token.RoleEditor}
	require.ErrorIs(t, Authorize(editor, AdminNotSelf(4)), ErrSelfDelete)
}
