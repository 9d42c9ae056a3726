package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/db"
	"github.com/lumina/internal/service"
)

type parishForm struct {
	Name        string `form:"name"`
	Location    string `form:"location"`
	Description string `form:"description"`
	WebsiteURL  string `form:"websiteUrl"`
	Featured    string `form:"featured"`
}

func (f parishForm) input() service.ParishInput {
	return service.ParishInput{
		Name:        f.Name,
		Location:    f.Location,
		Description: f.Description,
		WebsiteURL:  f.WebsiteURL,
		Featured:    isChecked(f.Featured),
	}
}

func parishFormFrom(parish *db.Parish) parishForm {
	form := parishForm{
		Name:        parish.Name,
		Location:    parish.Location,
		Description: parish.DescriptionText(),
		WebsiteURL:  parish.Website(),
	}
	if parish.Featured {
		form.Featured = checkboxOn
	}
	return form
}

// CreateParish adds a parish from the dashboard form.
func (a *API) CreateParish(c *gin.Context) {
	var form parishForm
	if err := c.ShouldBind(&form); err != nil {
		addFlash(c, "Could not read the parish form.")
		redirectSeeOther(c, adminTab(tabParishes))
		return
	}

	parish, err := a.parishes.Create(c.Request.Context(), form.input())
	if err != nil {
		if message, ok := parishRejection(err); ok {
			addFlash(c, message)
			redirectSeeOther(c, adminTab(tabParishes))
			return
		}
		a.renderError(c, err)
		return
	}

	addFlash(c, "Added "+parish.Name+".")
	redirectSeeOther(c, adminTab(tabParishes))
}

// ShowParishEdit renders the edit form for one parish.
func (a *API) ShowParishEdit(c *gin.Context) {
	parish, err := a.parishes.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrParishNotFound) {
			a.NotFound(c)
			return
		}
		a.renderError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "parish_edit.html", gin.H{
		"title":      "Edit " + parish.Name,
		"parish":     parish,
		"flashes":    takeFlashes(c),
		"form":       parishFormFrom(parish),
		"formAction": "/admin/parishes/" + parish.ID,
		"formSubmit": "Save Changes",
	})
}

// UpdateParish replaces every field of a parish from the edit form.
func (a *API) UpdateParish(c *gin.Context) {
	id := c.Param("id")
	editPath := "/admin/parishes/" + id + "/edit"

	var form parishForm
	if err := c.ShouldBind(&form); err != nil {
		addFlash(c, "Could not read the parish form.")
		redirectSeeOther(c, editPath)
		return
	}

	parish, err := a.parishes.Update(c.Request.Context(), id, form.input())
	if err != nil {
		if errors.Is(err, service.ErrParishNotFound) {
			addFlash(c, "That parish no longer exists.")
			redirectSeeOther(c, adminTab(tabParishes))
			return
		}
		if message, ok := parishRejection(err); ok {
			addFlash(c, message)
			redirectSeeOther(c, editPath)
			return
		}
		a.renderError(c, err)
		return
	}

	addFlash(c, "Saved "+parish.Name+".")
	redirectSeeOther(c, adminTab(tabParishes))
}

// DeleteParish removes a parish. Deleting one that is already gone is not an
// error.
func (a *API) DeleteParish(c *gin.Context) {
	err := a.parishes.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		addFlash(c, "Parish deleted.")
	case errors.Is(err, service.ErrParishNotFound):
		addFlash(c, "Parish was already removed.")
	default:
		a.renderError(c, err)
		return
	}
	redirectSeeOther(c, adminTab(tabParishes))
}

// parishRejection turns validation failures into a flash message.
func parishRejection(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrMissingRequiredField):
		return "Please fill in: " + strings.Join(missingFields(err), ", ") + ".", true
	case errors.Is(err, service.ErrParishSlugTaken):
		return "A parish with that name already exists.", true
	case errors.Is(err, service.ErrParishSlugInvalid):
		return "The parish name must contain letters or digits.", true
	default:
		return "", false
	}
}
