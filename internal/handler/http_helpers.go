package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lumina/internal/service"
)

const checkboxOn = "on"

var fieldLabels = map[string]string{
	"Name":        "name",
	"name":        "name",
	"ParishName":  "parish name",
	"parishName":  "parish name",
	"Location":    "location",
	"location":    "location",
	"Email":       "email",
	"email":       "email",
	"Message":     "message",
	"message":     "message",
	"Description": "description",
}

// redirectSeeOther sends the browser to target with a GET after a form post.
func redirectSeeOther(c *gin.Context, target string) {
	c.Redirect(http.StatusSeeOther, target)
}

func withSuccess(path string) string {
	return path + "?success=true"
}

func adminTab(tab string) string {
	return "/admin?tab=" + url.QueryEscape(tab)
}

// addFlash queues a one-shot message shown on the next admin page.
func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		log.Printf("save flash: %v", err)
	}
}

func takeFlashes(c *gin.Context) []interface{} {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			log.Printf("clear flashes: %v", err)
		}
	}
	return flashes
}

// missingFields lists the human labels of the required fields a binding or
// service error complained about. It returns nil for any other error.
func missingFields(err error) []string {
	var names []string

	var validationErrs validator.ValidationErrors
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			names = append(names, fe.Field())
		}
	case errors.As(err, &fieldErr):
		names = fieldErr.Fields
	default:
		return nil
	}

	labels := make([]string, 0, len(names))
	for _, name := range names {
		if label, ok := fieldLabels[name]; ok {
			labels = append(labels, label)
			continue
		}
		labels = append(labels, strings.ToLower(name))
	}
	return labels
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case checkboxOn, "true", "1":
		return true
	default:
		return false
	}
}
