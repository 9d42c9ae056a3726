package router

import (
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/lumina/internal/auth"
	"github.com/lumina/internal/cache"
	"github.com/lumina/internal/config"
	"github.com/lumina/internal/handler"
	"github.com/lumina/internal/view"
)

// SetupRouter configures the gin engine with the public site and the guarded
// admin back-office. pageCache may be nil.
func SetupRouter(cfg config.AppConfig, api *handler.API, pageCache *cache.PageCache) (*gin.Engine, error) {
	r := gin.Default()

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", view.Static())
	r.GET("/healthz", api.Healthz)

	r.Use(sessions.Sessions(auth.SessionName, auth.NewStore(cfg.SessionSecret, cfg.IsProduction())))

	if cfg.CSRFKey != "" {
		key, err := decodeCSRFKey(cfg.CSRFKey)
		if err != nil {
			return nil, err
		}
		r.Use(csrfMiddleware(key, cfg))
	}

	public := r.Group("/")
	if pageCache != nil {
		public.Use(pageCache.Middleware(isCacheablePath))
	}
	{
		public.GET("/", api.ShowHome)
		public.GET("/about", api.ShowAbout)
		public.GET("/churches", api.ShowParishDirectory)
		public.GET("/churches/:slug", api.ShowParish)
		public.GET("/feedbacks", api.ShowFeedbacks)

		public.GET("/demo-request", api.ShowDemoRequest)
		public.POST("/demo-request", api.SubmitDemoRequest)
		public.GET("/contact", api.ShowContact)
		public.POST("/contact", api.SubmitFeedback)
	}

	admin := r.Group(auth.AdminRoot)
	admin.Use(api.RouteGuard())
	{
		admin.GET("", api.ShowDashboard)
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		admin.POST("/parishes", api.CreateParish)
		admin.GET("/parishes/:id/edit", api.ShowParishEdit)
		admin.POST("/parishes/:id", api.UpdateParish)
		admin.POST("/parishes/:id/delete", api.DeleteParish)

		admin.POST("/demo-requests/:id/delete", api.DeleteDemoRequest)

		admin.POST("/feedbacks/:id/delete", api.DeleteFeedback)
		admin.POST("/feedbacks/:id/visibility", api.SetFeedbackVisibility)
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

// isCacheablePath matches the public pages that carry no per-visitor content.
func isCacheablePath(path string) bool {
	switch path {
	case "/", "/about", "/churches", "/feedbacks":
		return true
	}
	return strings.HasPrefix(path, "/churches/")
}

// decodeCSRFKey accepts either 64 hex characters or a raw 32-byte string.
func decodeCSRFKey(raw string) ([]byte, error) {
	if key, err := hex.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	if len(raw) == 32 {
		return []byte(raw), nil
	}
	return nil, errors.New("CSRF_KEY must be 64 hex characters or 32 bytes")
}

// csrfMiddleware runs gorilla/csrf in front of the gin handlers. Plain HTTP
// requests are flagged outside production so the referer check is skipped.
func csrfMiddleware(key []byte, cfg config.AppConfig) gin.HandlerFunc {
	options := []csrf.Option{
		csrf.Secure(cfg.IsProduction()),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
	}
	if parsed, err := url.Parse(cfg.SiteBaseURL); err == nil && parsed.Host != "" {
		options = append(options, csrf.TrustedOrigins([]string{parsed.Host}))
	}
	protect := csrf.Protect(key, options...)

	return func(c *gin.Context) {
		req := c.Request
		if !cfg.IsProduction() && req.TLS == nil {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}
