package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/contact"
)

const sessionCookie = "contact_session"

type fieldView struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Multiline   bool
}

type formView struct {
	// Phase is the state the fragment was rendered in; status polls send it
	// back so the server knows whether the inputs are stale.
	Phase     string
	Fields    []fieldView
	Busy      bool
	Submitted bool
	Failed    bool
	Failure   string
	// Polling keeps the status banner refreshing until the form is Idle again.
	Polling bool
}

var fieldMeta = map[contact.Field]fieldView{
	contact.FieldName:    {Label: "Your Name", Type: "text", Placeholder: "John Doe"},
	contact.FieldEmail:   {Label: "Your Email", Type: "email", Placeholder: "john@example.com"},
	contact.FieldSubject: {Label: "Subject", Type: "text", Placeholder: "Project Inquiry"},
	contact.FieldMessage: {Label: "Message", Placeholder: "Your message here...", Multiline: true},
}

func newFormView(v contact.View) formView {
	out := formView{
		Phase:     v.State.String(),
		Busy:      v.State == contact.StateSubmitting,
		Submitted: v.State == contact.StateSubmitted,
		Failed:    v.State == contact.StateFailed,
		Failure:   v.Failure,
		Polling:   v.State != contact.StateIdle,
	}
	for _, f := range contact.AllFields() {
		out.Fields = append(out.Fields, newFieldView(v, f))
	}
	return out
}

func newFieldView(v contact.View, f contact.Field) fieldView {
	fv := fieldMeta[f]
	fv.Name = string(f)
	fv.Value = v.Fields.Get(f)
	fv.Error = v.Errors[f]
	return fv
}

// inputsStale reports whether a form rendered in phase no longer matches v.
// Inputs are disabled only while submitting and a successful submission clears
// them, so the form is swapped only when entering or leaving that phase. Other
// transitions update the status banner alone and never touch what the visitor
// is typing.
func inputsStale(phase string, v contact.View) bool {
	rendered := phase == contact.StateSubmitting.String()
	return rendered != (v.State == contact.StateSubmitting)
}

// controllerFor returns the visitor's form, starting a session when the cookie
// is missing or its session was evicted.
func (s *Server) controllerFor(c *gin.Context) *contact.Controller {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if ctrl, ok := s.opts.Sessions.Lookup(id); ok {
			return ctrl
		}
	}
	id, ctrl := s.opts.Sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", s.opts.SecureCookies, true)
	return ctrl
}

func (s *Server) setupContactRoutes(r *gin.Engine) {
	r.GET("/contact-form", func(c *gin.Context) {
		ctrl := s.controllerFor(c)
		c.HTML(http.StatusOK, "contact.html", newFormView(ctrl.Snapshot()))
	})

	// Status banner poll. Swaps the whole form instead when its inputs are stale.
	r.GET("/contact-status", func(c *gin.Context) {
		snap := s.controllerFor(c).Snapshot()
		view := newFormView(snap)
		if inputsStale(c.Query("phase"), snap) {
			c.Header("HX-Retarget", "#contact-form")
			c.Header("HX-Reswap", "outerHTML")
			c.HTML(http.StatusOK, "contact.html", view)
			return
		}
		c.HTML(http.StatusOK, "contact-status.html", view)
	})

	// Single field edit; clears that field's error slot.
	r.POST("/contact/fields/:field", func(c *gin.Context) {
		field, ok := contact.ParseField(c.Param("field"))
		if !ok {
			c.String(http.StatusBadRequest, "unknown field")
			return
		}
		ctrl := s.controllerFor(c)
		if err := ctrl.EditField(field, c.PostForm(string(field))); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.HTML(http.StatusOK, "contact-field-error.html", newFieldView(ctrl.Snapshot(), field))
	})

	r.POST("/contact", func(c *gin.Context) {
		ctrl := s.controllerFor(c)
		for _, f := range contact.AllFields() {
			if v, ok := c.GetPostForm(string(f)); ok {
				// Known field names only, so this cannot fail.
				_ = ctrl.EditField(f, v)
			}
		}

		err := ctrl.Submit()
		switch {
		case errors.Is(err, contact.ErrSubmitInProgress):
			s.logger.Debug().Msg("contact submit ignored, already submitting")
		case err != nil:
			s.logger.Warn().Err(err).Msg("contact submit failed")
		}
		c.HTML(http.StatusOK, "contact.html", newFormView(ctrl.Snapshot()))
	})
}
