package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/cache"
	"github.com/lumina/internal/db"
	"github.com/lumina/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ShowHome renders the landing page with the directory size and the latest
// public feedback.
func (a *API) ShowHome(c *gin.Context) {
	count, err := a.parishes.Count()
	if err != nil {
		log.Printf("home: %v", err)
		cache.SkipStore(c)
		count = 0
	}

	feedbacks, err := a.feedbacks.ListPublic(service.HomeFeedbackLimit)
	if err != nil {
		log.Printf("home: %v", err)
		cache.SkipStore(c)
		feedbacks = nil
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"active":      "home",
		"parishCount": int(count),
		"feedbacks":   feedbacks,
	})
}

// ShowAbout renders the static about page.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":  "About",
		"active": "about",
	})
}

// ShowParishDirectory lists every parish, featured first. A failed read shows
// the empty directory, which is kept out of the page cache.
func (a *API) ShowParishDirectory(c *gin.Context) {
	parishes, err := a.parishes.List()
	if err != nil {
		log.Printf("parish directory: %v", err)
		cache.SkipStore(c)
		parishes = []db.Parish{}
	}

	a.renderHTML(c, http.StatusOK, "churches.html", gin.H{
		"title":    "Parish Directory",
		"active":   "churches",
		"parishes": parishes,
	})
}

// ShowParish renders one parish by slug.
func (a *API) ShowParish(c *gin.Context) {
	parish, err := a.parishes.GetBySlug(c.Param("slug"))
	if err != nil {
		if !errors.Is(err, service.ErrParishNotFound) {
			log.Printf("parish %q: %v", c.Param("slug"), err)
		}
		a.NotFound(c)
		return
	}

	var description template.HTML
	if text := parish.DescriptionText(); text != "" {
		rendered, err := renderMarkdown(text)
		if err != nil {
			rendered = template.HTML(template.HTMLEscapeString(text))
		}
		description = rendered
	}

	a.renderHTML(c, http.StatusOK, "parish.html", gin.H{
		"title":       parish.Name,
		"active":      "churches",
		"parish":      parish,
		"description": description,
	})
}

// ShowFeedbacks lists the most recent public feedback.
func (a *API) ShowFeedbacks(c *gin.Context) {
	feedbacks, err := a.feedbacks.ListPublic(service.PublicFeedbackLimit)
	if err != nil {
		log.Printf("feedbacks: %v", err)
		cache.SkipStore(c)
		feedbacks = []db.Feedback{}
	}

	a.renderHTML(c, http.StatusOK, "feedbacks.html", gin.H{
		"title":     "Community Feedback",
		"active":    "feedbacks",
		"feedbacks": feedbacks,
	})
}

// Healthz reports whether the database answers.
func (a *API) Healthz(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
