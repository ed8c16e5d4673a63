package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/pkg/httpx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.AccessVerifier
	shareBaseURL string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	UserService     *service.UserService
	ResourceService *service.ResourceService
	ShareService    *service.ShareService
	JoinService     *service.JoinService
}

func NewRouter(
	verifier httpx.AccessVerifier,
	shareBaseURL, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		shareBaseURL: shareBaseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerResources(domain.KindRecipe)
	r.registerResources(domain.KindGroceryList)
	r.registerJoin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// basePath maps a resource kind onto its URL segment.
func basePath(kind domain.Kind) string {
	if kind == domain.KindGroceryList {
		return "/api/grocery-lists"
	}
	return "/api/recipes"
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Credential endpoints - strict rate limit by IP (brute force surface)
	r.Mux.Handle("POST /api/users/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /api/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerResources(kind domain.Kind) {
	base := basePath(kind)

	rh := &ResourcesHandler{Kind: kind, ResourceService: r.ResourceService}
	sh := &SharesHandler{Kind: kind, ShareService: r.ShareService, BaseURL: r.shareBaseURL}

	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("GET "+base,
		httpx.Chain(http.HandlerFunc(rh.HandleList),
			authn,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST "+base,
		httpx.Chain(http.HandlerFunc(rh.HandleCreate),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT "+base+"/{id}",
		httpx.Chain(http.HandlerFunc(rh.HandleUpdate),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE "+base+"/{id}",
		httpx.Chain(http.HandlerFunc(rh.HandleDelete),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST "+base+"/{id}/share",
		httpx.Chain(http.HandlerFunc(sh.HandleMint),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET "+base+"/{id}/share",
		httpx.Chain(http.HandlerFunc(sh.HandleList),
			authn,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT "+base+"/{id}/share",
		httpx.Chain(http.HandlerFunc(sh.HandleUpdate),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE "+base+"/{id}/share",
		httpx.Chain(http.HandlerFunc(sh.HandleLeave),
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerJoin() {
	h := &JoinHandler{JoinService: r.JoinService}

	// GET is the unauthenticated preview a fresh browser hits first.
	r.Mux.Handle("GET /api/join/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleInfo),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// POST creates a membership - strict limit to slow down code scanning.
	r.Mux.Handle("POST /api/join/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleRedeem),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
