package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/auth"
	"github.com/lumina/internal/config"
	"github.com/lumina/internal/db"
	"github.com/lumina/internal/view"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminPassword = "letmein"

type handlerTestEnv struct {
	db     *gorm.DB
	api    *API
	engine *gin.Engine
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// newHandlerTestEnv wires the handlers the same way the router does, without
// CSRF or page caching.
func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	cfg := config.AppConfig{SessionSecret: "handler-test-secret", AdminPassword: testAdminPassword}

	guard, err := auth.NewGuard(cfg.AdminPassword, false)
	if err != nil {
		t.Fatalf("failed to create guard: %v", err)
	}
	api := NewAPI(gdb, cfg, guard, nil, nil)

	tmpl, err := view.Templates()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(sessions.Sessions(auth.SessionName, auth.NewStore(cfg.SessionSecret, false)))

	r.GET("/", api.ShowHome)
	r.GET("/about", api.ShowAbout)
	r.GET("/churches", api.ShowParishDirectory)
	r.GET("/churches/:slug", api.ShowParish)
	r.GET("/feedbacks", api.ShowFeedbacks)
	r.GET("/demo-request", api.ShowDemoRequest)
	r.POST("/demo-request", api.SubmitDemoRequest)
	r.GET("/contact", api.ShowContact)
	r.POST("/contact", api.SubmitFeedback)
	r.GET("/healthz", api.Healthz)

	admin := r.Group("/admin")
	admin.Use(api.RouteGuard())
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

	return &handlerTestEnv{db: gdb, api: api, engine: r}
}

func (e *handlerTestEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func (e *handlerTestEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

// login returns the admin session cookie.
func (e *handlerTestEnv) login(t *testing.T) *http.Cookie {
	t.Helper()

	rr := e.postForm("/admin/login", url.Values{"password": {testAdminPassword}})
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin" {
		t.Fatalf("expected login to redirect to /admin, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	return sessionCookie(t, rr)
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == auth.SessionName {
			return cookie
		}
	}
	t.Fatalf("response did not set %s", auth.SessionName)
	return nil
}
