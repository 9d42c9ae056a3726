package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/service"
)

const (
	demoRequestPath = "/demo-request"
	contactPath     = "/contact"
)

type demoRequestForm struct {
	Name       string `form:"name" binding:"required"`
	ParishName string `form:"parishName" binding:"required"`
	Location   string `form:"location" binding:"required"`
	Email      string `form:"email" binding:"required"`
	Phone      string `form:"phone"`
	Message    string `form:"message"`
}

type feedbackForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Message  string `form:"message" binding:"required"`
	IsPublic string `form:"isPublic"`
}

// ShowDemoRequest renders the demo-request form, or its confirmation when the
// success flag is set.
func (a *API) ShowDemoRequest(c *gin.Context) {
	a.renderDemoRequest(c, http.StatusOK, demoRequestForm{}, nil)
}

// SubmitDemoRequest stores a demo request and redirects to the confirmation.
func (a *API) SubmitDemoRequest(c *gin.Context) {
	var form demoRequestForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderDemoRequest(c, http.StatusBadRequest, form, missingFields(err))
		return
	}

	_, err := a.demoRequests.Create(c.Request.Context(), service.DemoRequestInput{
		Name:       form.Name,
		ParishName: form.ParishName,
		Location:   form.Location,
		Email:      form.Email,
		Phone:      form.Phone,
		Message:    form.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredField) {
			a.renderDemoRequest(c, http.StatusBadRequest, form, missingFields(err))
			return
		}
		a.renderError(c, err)
		return
	}

	redirectSeeOther(c, withSuccess(demoRequestPath))
}

func (a *API) renderDemoRequest(c *gin.Context, status int, form demoRequestForm, missing []string) {
	a.renderHTML(c, status, "demo_request.html", gin.H{
		"title":     "Request a Demo",
		"success":   status == http.StatusOK && c.Query("success") == "true",
		"form":      form,
		"errors":    missing,
		"formError": status == http.StatusBadRequest && len(missing) == 0,
	})
}

// ShowContact renders the feedback form, or its confirmation when the success
// flag is set.
func (a *API) ShowContact(c *gin.Context) {
	a.renderContact(c, http.StatusOK, feedbackForm{}, nil)
}

// SubmitFeedback stores a feedback message and redirects to the confirmation.
func (a *API) SubmitFeedback(c *gin.Context) {
	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderContact(c, http.StatusBadRequest, form, missingFields(err))
		return
	}

	_, err := a.feedbacks.Create(c.Request.Context(), service.FeedbackInput{
		Name:     form.Name,
		Email:    form.Email,
		Message:  form.Message,
		IsPublic: form.IsPublic == checkboxOn,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredField) {
			a.renderContact(c, http.StatusBadRequest, form, missingFields(err))
			return
		}
		a.renderError(c, err)
		return
	}

	redirectSeeOther(c, withSuccess(contactPath))
}

func (a *API) renderContact(c *gin.Context, status int, form feedbackForm, missing []string) {
	a.renderHTML(c, status, "contact.html", gin.H{
		"title":     "Contact",
		"active":    "contact",
		"success":   status == http.StatusOK && c.Query("success") == "true",
		"form":      form,
		"errors":    missing,
		"formError": status == http.StatusBadRequest && len(missing) == 0,
	})
}
