package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/service"
)

// DeleteDemoRequest removes a demo request from the dashboard.
func (a *API) DeleteDemoRequest(c *gin.Context) {
	err := a.demoRequests.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		addFlash(c, "Demo request deleted.")
	case errors.Is(err, service.ErrDemoRequestNotFound):
		addFlash(c, "Demo request was already removed.")
	default:
		a.renderError(c, err)
		return
	}
	redirectSeeOther(c, adminTab(tabDemoRequests))
}

// DeleteFeedback removes a feedback message from the dashboard.
func (a *API) DeleteFeedback(c *gin.Context) {
	err := a.feedbacks.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		addFlash(c, "Feedback deleted.")
	case errors.Is(err, service.ErrFeedbackNotFound):
		addFlash(c, "Feedback was already removed.")
	default:
		a.renderError(c, err)
		return
	}
	redirectSeeOther(c, adminTab(tabFeedback))
}

// SetFeedbackVisibility applies the isPublic value bound into the form when
// the dashboard was rendered.
func (a *API) SetFeedbackVisibility(c *gin.Context) {
	isPublic := isChecked(c.PostForm("isPublic"))

	item, err := a.feedbacks.SetVisibility(c.Request.Context(), c.Param("id"), isPublic)
	switch {
	case err == nil && item.IsPublic:
		addFlash(c, "Feedback is now public.")
	case err == nil:
		addFlash(c, "Feedback is now private.")
	case errors.Is(err, service.ErrFeedbackNotFound):
		addFlash(c, "That feedback no longer exists.")
	default:
		a.renderError(c, err)
		return
	}
	redirectSeeOther(c, adminTab(tabFeedback))
}
