package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/auth"
	"github.com/lumina/internal/db"
)

const (
	tabDemoRequests = "demo-requests"
	tabFeedback     = "feedback"
	tabParishes     = "parishes"

	loginErrorMissing = "missing"
	loginErrorInvalid = "invalid"
)

var loginErrorMessages = map[string]string{
	loginErrorInvalid: "Invalid password. Please try again.",
	loginErrorMissing: "Please enter a password.",
}

type dashboardStats struct {
	Parishes         int
	FeaturedParishes int
	DemoRequests     int
	Feedback         int
	PublicFeedback   int
}

// RouteGuard sends unauthenticated visitors of admin pages to the login page
// and authenticated visitors of the login page to the dashboard.
func (a *API) RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := a.decide(c)
		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *API) decide(c *gin.Context) auth.Decision {
	return auth.Decide(c.Request.URL.Path, a.guard.Validate(sessions.Default(c)))
}

// ShowLoginPage renders the login form with the message selected by the
// error query value.
func (a *API) ShowLoginPage(c *gin.Context) {
	if decision := a.decide(c); !decision.Allowed() {
		c.Redirect(http.StatusFound, decision.Redirect)
		return
	}

	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Admin Login",
		"error": loginErrorMessages[c.Query("error")],
	})
}

// Login checks the submitted password against the admin secret.
func (a *API) Login(c *gin.Context) {
	err := a.guard.Establish(sessions.Default(c), c.PostForm("password"))
	switch {
	case err == nil:
		redirectSeeOther(c, auth.AdminRoot)
	case errors.Is(err, auth.ErrMissingCredential):
		redirectSeeOther(c, auth.LoginPath+"?error="+loginErrorMissing)
	case errors.Is(err, auth.ErrInvalidCredential):
		redirectSeeOther(c, auth.LoginPath+"?error="+loginErrorInvalid)
	default:
		a.renderError(c, err)
	}
}

// Logout ends the admin session.
func (a *API) Logout(c *gin.Context) {
	if err := a.guard.End(sessions.Default(c)); err != nil {
		log.Printf("logout: %v", err)
	}
	redirectSeeOther(c, auth.LoginPath)
}

// ShowDashboard lists every record kind on tabs. Failed reads show as empty.
func (a *API) ShowDashboard(c *gin.Context) {
	if decision := a.decide(c); !decision.Allowed() {
		c.Redirect(http.StatusFound, decision.Redirect)
		return
	}

	tab := c.DefaultQuery("tab", tabDemoRequests)
	switch tab {
	case tabDemoRequests, tabFeedback, tabParishes:
	default:
		tab = tabDemoRequests
	}

	demoRequests, err := a.demoRequests.List()
	if err != nil {
		log.Printf("dashboard: %v", err)
		demoRequests = []db.DemoRequest{}
	}
	feedbacks, err := a.feedbacks.List()
	if err != nil {
		log.Printf("dashboard: %v", err)
		feedbacks = []db.Feedback{}
	}
	parishes, err := a.parishes.ListRecent()
	if err != nil {
		log.Printf("dashboard: %v", err)
		parishes = []db.Parish{}
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":        "Dashboard",
		"tab":          tab,
		"flashes":      takeFlashes(c),
		"stats":        buildDashboardStats(demoRequests, feedbacks, parishes),
		"demoRequests": demoRequests,
		"feedbacks":    feedbacks,
		"parishes":     parishes,
		"form":         parishForm{},
		"formAction":   "/admin/parishes",
		"formSubmit":   "Add Parish",
	})
}

func buildDashboardStats(demoRequests []db.DemoRequest, feedbacks []db.Feedback, parishes []db.Parish) dashboardStats {
	stats := dashboardStats{
		Parishes:     len(parishes),
		DemoRequests: len(demoRequests),
		Feedback:     len(feedbacks),
	}
	for _, parish := range parishes {
		if parish.Featured {
			stats.FeaturedParishes++
		}
	}
	for _, item := range feedbacks {
		if item.IsPublic {
			stats.PublicFeedback++
		}
	}
	return stats
}
