package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/lumina/internal/auth"
	"github.com/lumina/internal/config"
	"github.com/lumina/internal/service"
	"gorm.io/gorm"
)

const siteName = "Lumina"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	config       config.AppConfig
	guard        *auth.Guard
	parishes     *service.ParishService
	demoRequests *service.DemoRequestService
	feedbacks    *service.FeedbackService
}

// NewAPI constructs a handler set with shared services. Every write made
// through the services is followed by revalidator; notifier hears about new
// demo requests.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, guard *auth.Guard, revalidator service.Revalidator, notifier service.DemoRequestNotifier) *API {
	return &API{
		db:           gdb,
		config:       cfg,
		guard:        guard,
		parishes:     service.NewParishService(gdb, revalidator),
		demoRequests: service.NewDemoRequestService(gdb, revalidator, notifier),
		feedbacks:    service.NewFeedbackService(gdb, revalidator),
	}
}

// DB exposes the underlying gorm instance for the health check and tooling.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["csrfField"]; !exists {
		payload["csrfField"] = csrf.TemplateField(c.Request)
	}

	c.HTML(status, template, payload)
}

// renderError is the generic failure page shown when a write cannot be stored.
func (a *API) renderError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"title": "Something Went Wrong",
	})
}

// NotFound renders the shared 404 page.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Page Not Found",
	})
}
