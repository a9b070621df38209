package routes

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/templui/corpsite/internal/app"
	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/handler"
	"github.com/templui/corpsite/internal/middleware"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/storage"
)

// endpoint is one row of the route table. A nil rule means the endpoint is
// public.
type endpoint struct {
	method  string
	path    string
	rule    middleware.RuleFunc
	source  auth.TokenSource
	limiter *middleware.RateLimiter
	handler http.HandlerFunc
}

var (
	adminOnly     = middleware.Static(auth.AdminOnly())
	adminOrEditor = middleware.Static(auth.AdminOrEditor())
	authenticated = middleware.Static(auth.AuthenticatedOnly())
	adminOrSelf   = middleware.ByPathID(auth.AdminOrSelf)
	adminNotSelf  = middleware.ByPathID(auth.AdminNotSelf)
)

var allMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// Limiter budgets for login and public submissions.
const (
	loginLimit        = 10
	submissionLimit   = 5
	limiterWindow     = time.Minute
	limiterSweepEvery = 5 * time.Minute
)

// SetupRoutes builds the HTTP handler. Closing stop ends the rate limiter sweepers.
func SetupRoutes(app *app.App, stop <-chan struct{}) http.Handler {
	maxMemory := app.Cfg.UploadMaxMemory

	// Handlers
	authH := handler.NewAuthHandler(app.AuthService, maxMemory)
	services := handler.NewServiceHandler(app.CatalogService, maxMemory)
	projects := handler.NewProjectHandler(app.ProjectService, maxMemory)
	team := handler.NewTeamHandler(app.TeamService, maxMemory)
	testimonials := handler.NewTestimonialHandler(app.TestimonialService, maxMemory)
	inbox := handler.NewInboxHandler(app.InboxService, maxMemory)
	settings := handler.NewSettingsHandler(app.SettingsService, maxMemory)
	users := handler.NewUserHandler(app.UserService, maxMemory)
	health := handler.NewHealthHandler(app.DB)

	loginLimiter := middleware.NewRateLimiter(loginLimit, limiterWindow).TrustProxies(app.Cfg.TrustedProxies)
	loginLimiter.StartCleanup(limiterSweepEvery, stop)
	submitLimiter := middleware.NewRateLimiter(submissionLimit, limiterWindow).TrustProxies(app.Cfg.TrustedProxies)
	submitLimiter.StartCleanup(limiterSweepEvery, stop)

	endpoints := []endpoint{
		// Auth
		{method: "POST", path: "/api/auth/login", limiter: loginLimiter, handler: authH.Login},
		{method: "GET", path: "/api/auth/me", rule: authenticated, source: auth.HeaderOrParam, handler: authH.Me},

		// Services
		{method: "GET", path: "/api/services", handler: services.List},
		{method: "GET", path: "/api/services/{id}", handler: services.Get},
		{method: "POST", path: "/api/services", rule: adminOnly, handler: services.Create},
		{method: "PUT", path: "/api/services/{id}", rule: adminOnly, handler: services.Update},
		{method: "DELETE", path: "/api/services/{id}", rule: adminOnly, handler: services.Delete},

		// Projects
		{method: "GET", path: "/api/projects", handler: projects.List},
		{method: "GET", path: "/api/projects/{id}", handler: projects.Get},
		{method: "POST", path: "/api/projects", rule: adminOnly, handler: projects.Create},
		{method: "PUT", path: "/api/projects/{id}", rule: adminOnly, handler: projects.Update},
		{method: "DELETE", path: "/api/projects/{id}", rule: adminOnly, handler: projects.Delete},

		// Team members: writes carry no access rule.
		{method: "GET", path: "/api/team", handler: team.List},
		{method: "GET", path: "/api/team/{id}", handler: team.Get},
		{method: "POST", path: "/api/team", handler: team.Create},
		{method: "PUT", path: "/api/team/{id}", handler: team.Update},
		{method: "DELETE", path: "/api/team/{id}", handler: team.Delete},

		// Testimonials
		{method: "GET", path: "/api/testimonials", handler: testimonials.List},
		{method: "GET", path: "/api/testimonials/{id}", handler: testimonials.Get},
		{method: "POST", path: "/api/testimonials", rule: adminOrEditor, handler: testimonials.Create},
		{method: "PUT", path: "/api/testimonials/{id}", rule: adminOrEditor, handler: testimonials.Update},
		{method: "DELETE", path: "/api/testimonials/{id}", rule: adminOrEditor, handler: testimonials.Delete},

		// Messages
		{method: "POST", path: "/api/messages", limiter: submitLimiter, handler: inbox.SubmitMessage},
		{method: "GET", path: "/api/messages", rule: adminOnly, handler: inbox.ListMessages},
		{method: "GET", path: "/api/messages/{id}", rule: adminOnly, handler: inbox.GetMessage},
		{method: "PUT", path: "/api/messages/{id}", rule: adminOnly, handler: inbox.UpdateMessage},
		{method: "DELETE", path: "/api/messages/{id}", rule: adminOnly, handler: inbox.DeleteMessage},

		// Quotes
		{method: "POST", path: "/api/quotes", limiter: submitLimiter, handler: inbox.SubmitQuote},
		{method: "GET", path: "/api/quotes", rule: adminOnly, handler: inbox.ListQuotes},
		{method: "GET", path: "/api/quotes/{id}", rule: adminOnly, handler: inbox.GetQuote},
		{method: "PUT", path: "/api/quotes/{id}", rule: adminOnly, handler: inbox.UpdateQuote},
		{method: "DELETE", path: "/api/quotes/{id}", rule: adminOnly, handler: inbox.DeleteQuote},

		// Settings
		{method: "GET", path: "/api/settings", handler: settings.Get},
		{method: "PUT", path: "/api/settings", rule: adminOnly, source: auth.HeaderOrParam, handler: settings.Update},

		// Users
		{method: "GET", path: "/api/users", rule: adminOnly, handler: users.List},
		{method: "GET", path: "/api/users/{id}", rule: adminOrSelf, handler: users.Get},
		{method: "POST", path: "/api/users", rule: adminOnly, handler: users.Create},
		{method: "PUT", path: "/api/users/{id}", rule: adminOrSelf, handler: users.Update},
		{method: "DELETE", path: "/api/users/{id}", rule: adminNotSelf, handler: users.Delete},

		// Operations
		{method: "GET", path: "/healthz", handler: health.Check},
	}

	mux := http.NewServeMux()

	for _, e := range endpoints {
		var h http.Handler = e.handler
		if e.rule != nil {
			h = middleware.Guard(app.Gate, e.source, e.rule)(h)
		}
		if e.limiter != nil {
			h = middleware.RateLimit(e.limiter)(h)
		}
		mux.Handle(e.method+" "+e.path, h)
	}

	mux.Handle("GET /metrics", promhttp.Handler())

	// Uploaded files (local backend only; S3 URLs point at the bucket)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Root()))))
	}

	// Fallback: 405 when the path exists under another verb, else 404.
	mux.HandleFunc("/", fallback(mux))

	// Global middleware - executed in order (top to bottom).
	// Metrics wraps the mux directly so the matched pattern is visible to it.
	return middleware.Chain(
		middleware.Metrics(mux),
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.Config(app.Cfg),
	)
}

func fallback(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, m := range allMethods {
			if m == r.Method {
				continue
			}
			probe := r.Clone(r.Context())
			probe.Method = m
			_, pattern := mux.Handler(probe)
			if pattern != "" && pattern != "/" {
				allowed = append(allowed, m)
			}
		}
		if len(allowed) > 0 {
			slices.Sort(allowed)
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			respond.Message(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handler.NotFound(w, r)
	}
}
