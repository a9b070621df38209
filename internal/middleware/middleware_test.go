package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/config"
	"github.com/templui/corpsite/internal/ctxkeys"
	"github.com/templui/corpsite/internal/token"
)

type capHandler struct {
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out
	return nil
}

func (h *capHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capHandler) WithGroup(string) slog.Handler      { return h }

func captureLogs(t *testing.T) *capHandler {
	t.Helper()
	h := &capHandler{}
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return h
}

func bearer(t *testing.T, id int64, role token.Role, exp time.Time) string {
	t.Helper()
	tok, err := token.PlainCodec{}.Issue(token.Claims{SubjectID: id, Email: "u@example.com", Role: role, ExpiresAt: exp.Unix()})
	require.NoError(t, err)
	return tok
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ctxkeys.Caller(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(c)
	})
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGuard_AdminOnly(t *testing.T) {
	logs := captureLogs(t)
	gate := auth.NewGate(token.PlainCodec{})
	h := Guard(gate, auth.HeaderOnly, Static(auth.AdminOnly()))(okHandler(t))

	admin := bearer(t, 1, token.RoleAdmin, time.Now().Add(time.Hour))
	editor := bearer(t, 2, token.RoleEditor, time.Now().Add(time.Hour))
	expired := bearer(t, 1, token.RoleAdmin, time.Now().Add(-time.Minute))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"admin", "Bearer " + admin, http.StatusOK},
		{"bearer prefix removed", admin, http.StatusUnauthorized},
		{"editor", "Bearer " + editor, http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"garbage", "Bearer !!!", http.StatusUnauthorized},
		{"none", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/api/services/1", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				require.NotEmpty(t, errorBody(t, rec))
				require.Equal(t, "request denied", logs.lastMsg)
				require.Equal(t, slog.LevelWarn, logs.lastLvl)
			}
		})
	}
}

func TestGuard_ForbiddenLogsRule(t *testing.T) {
	logs := captureLogs(t)
	h := Guard(auth.NewGate(token.PlainCodec{}), auth.HeaderOnly, Static(auth.AdminOnly()))(okHandler(t))

	r := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	r.Header.Set("Authorization", "Bearer "+bearer(t, 2, token.RoleEditor, time.Now().Add(time.Hour)))
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, "forbidden", logs.attrs["reason"])
	require.Equal(t, "admin", logs.attrs["rule"])
}

func TestGuard_ParamFallback(t *testing.T) {
	gate := auth.NewGate(token.PlainCodec{})
	tok := bearer(t, 3, token.RoleEditor, time.Now().Add(time.Hour))

	strict := Guard(gate, auth.HeaderOnly, Static(auth.AuthenticatedOnly()))(okHandler(t))
	lenient := Guard(gate, auth.HeaderOrParam, Static(auth.AuthenticatedOnly()))(okHandler(t))

	rec := httptest.NewRecorder()
	strict.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me?token="+tok, nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	lenient.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me?token="+tok, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	r := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader("token="+tok+"&site_name=Acme"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	lenient.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_ByPathID(t *testing.T) {
	gate := auth.NewGate(token.PlainCodec{})
	mux := http.NewServeMux()
	mux.Handle("GET /api/users/{id}", Guard(gate, auth.HeaderOnly, ByPathID(auth.AdminOrSelf))(okHandler(t)))
	mux.Handle("DELETE /api/users/{id}", Guard(gate, auth.HeaderOnly, ByPathID(auth.AdminNotSelf))(okHandler(t)))

	editor := "Bearer " + bearer(t, 7, token.RoleEditor, time.Now().Add(time.Hour))
	admin := "Bearer " + bearer(t, 1, token.RoleAdmin, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"editor reads self", http.MethodGet, "/api/users/7", editor, http.StatusOK},
		{"editor reads other", http.MethodGet, "/api/users/8", editor, http.StatusForbidden},
		{"bad id", http.MethodGet, "/api/users/abc", editor, http.StatusBadRequest},
		{"admin deletes other", http.MethodDelete, "/api/users/7", admin, http.StatusOK},
		{"admin deletes self", http.MethodDelete, "/api/users/1", admin, http.StatusForbidden},
		{"unauthenticated bad id", http.MethodGet, "/api/users/abc", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, r)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	captureLogs(t)
	// httptest requests come from 192.0.2.1, the load balancer here.
	limiter := NewRateLimiter(2, time.Minute).TrustProxies(trustedProxies)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
		r.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, send("1.1.1.1"))
	require.Equal(t, http.StatusCreated, send("1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
	require.Equal(t, http.StatusCreated, send("2.2.2.2"))

	now = now.Add(time.Minute + time.Second)
	require.Equal(t, http.StatusCreated, send("1.1.1.1"))

	now = now.Add(3 * time.Minute)
	limiter.Cleanup()
	require.Empty(t, limiter.requests)
}

var trustedProxies = []netip.Prefix{
	netip.MustParsePrefix("192.0.2.1/32"),
	netip.MustParsePrefix("10.0.0.0/8"),
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		xff     string
		realIP  string
		trusted []netip.Prefix
		want    string
	}{
		{name: "peer only", remote: "203.0.113.9:5555", want: "203.0.113.9"},
		{name: "headers ignored without trusted proxies", remote: "203.0.113.9:5555", xff: "1.1.1.1", realIP: "2.2.2.2", want: "203.0.113.9"},
		{name: "headers ignored from untrusted peer", remote: "203.0.113.9:5555", xff: "1.1.1.1", trusted: trustedProxies, want: "203.0.113.9"},
		{name: "nearest untrusted hop", remote: "192.0.2.1:1234", xff: "6.6.6.6, 1.1.1.1, 10.0.0.3", trusted: trustedProxies, want: "1.1.1.1"},
		{name: "real ip from trusted peer", remote: "192.0.2.1:1234", realIP: " 198.51.100.2 ", trusted: trustedProxies, want: "198.51.100.2"},
		{name: "all hops trusted", remote: "192.0.2.1:1234", xff: "10.0.0.7", trusted: trustedProxies, want: "192.0.2.1"},
		{name: "ipv6 peer", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			require.Equal(t, tt.want, clientIP(r, tt.trusted))
		})
	}
}

func TestRateLimit_RotatingForwardedForFromClient(t *testing.T) {
	captureLogs(t)
	limiter := NewRateLimiter(1, time.Minute)
	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "203.0.113.9:40000"
		r.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://admin.acme.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodOptions, "/api/services", nil)
	r.Header.Set("Origin", "https://admin.acme.test")
	r.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://admin.acme.test", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	r = httptest.NewRequest(http.MethodGet, "/api/services", nil)
	r.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Metrics(mux)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /api/projects/{id}", "200"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/12", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/13", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /api/projects/{id}", "200"))
	require.Equal(t, before+2, after)
}

func TestRouteLabelFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/nope/42", nil)
	require.Equal(t, "/nope/{id}", routeLabel(r))
}

func TestRequestLogging(t *testing.T) {
	logs := captureLogs(t)
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/services", nil))
	require.Equal(t, "http request", logs.lastMsg)
	require.Equal(t, slog.LevelError, logs.lastLvl)
	require.Equal(t, int64(http.StatusInternalServerError), logs.attrs["status"])

	logs.lastMsg = ""
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/uploads/team/x.png", nil))
	require.Empty(t, logs.lastMsg)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestConfigMiddlewareSanitizes(t *testing.T) {
	cfg := &config.Config{AppName: "Acme", TokenSecret: "s3cret"}
	var got *config.Config
	h := Config(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.Config(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "Acme", got.AppName)
	require.Empty(t, got.TokenSecret)
}
