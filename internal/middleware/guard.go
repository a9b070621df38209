package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/ctxkeys"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/validation"
)

// RuleFunc resolves the access rule for one request.
type RuleFunc func(r *http.Request) (auth.Rule, error)

// Static applies the same rule to every request.
func Static(rule auth.Rule) RuleFunc {
	return func(*http.Request) (auth.Rule, error) {
		return rule, nil
	}
}

// ByPathID builds the rule from the integer {id} path value.
func ByPathID(build func(id int64) auth.Rule) RuleFunc {
	return func(r *http.Request) (auth.Rule, error) {
		id, err := PathID(r)
		if err != nil {
			return auth.Rule{}, err
		}
		return build(id), nil
	}
}

// PathID parses the {id} path value.
func PathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Invalid("id", "invalid id %q", raw)
	}
	return id, nil
}

// Guard authenticates the caller and checks rule before next runs, so a
// denied request never reaches a handler that writes.
func Guard(gate *auth.Gate, src auth.TokenSource, rule RuleFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := gate.Authenticate(auth.RequestFrom(r), src)
			if err != nil {
				deny(w, r, err, "")
				return
			}

			resolved, err := rule(r)
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			err = auth.Authorize(caller, resolved)
			if err != nil {
				deny(w, r, err, resolved.String(), "caller_id", caller.SubjectID, "role", caller.Role)
				return
			}

			ctx := ctxkeys.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, err error, rule string, attrs ...any) {
	reason := "forbidden"
	if !errors.Is(err, auth.ErrForbidden) {
		reason = "unauthenticated"
	}
	args := append([]any{"reason", reason, "method", r.Method, "path", r.URL.Path, "error", err}, attrs...)
	if rule != "" {
		args = append(args, "rule", rule)
	}
	slog.Warn("request denied", args...)
	respond.Error(w, r, err)
}
