package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contactform/contactform/internal/form"
	"github.com/contactform/contactform/internal/model"
)

const sessionCookieName = "contactform_session"

const sessionSaveTimeout = 5 * time.Second

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// editableFields are applied from a page post in this order
var editableFields = []string{
	model.FieldName,
	model.FieldEmail,
	model.FieldPhone,
	model.FieldDate,
	model.FieldMessage,
}

type formPage struct {
	State       *form.State
	RequireDate bool
	Success     bool
}

// FormPage handles GET /
func (h *Handler) FormPage(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)
	st, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load form session")
		http.Error(w, "Failed to load form", http.StatusInternalServerError)
		return
	}

	page := formPage{
		State:       st,
		RequireDate: h.cfg.Submission.RequireDate,
		Success:     strings.Contains(st.Message, "success"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, page); err != nil {
		h.log.Error().Err(err).Msg("failed to render form")
	}
}

// FormChange handles POST /form/change: one field edit, returns the stored value.
func (h *Handler) FormChange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	ctx := r.Context()
	id := h.sessionID(w, r)
	st, err := h.sessions.Load(ctx, id)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load form session")
		writeError(w, http.StatusInternalServerError, "Failed to update form")
		return
	}

	field := r.PostForm.Get("field")
	value, err := st.Change(field, r.PostForm.Get("value"))
	if err != nil {
		if errors.Is(err, form.ErrUnknownField) {
			writeError(w, http.StatusBadRequest, "Unknown field")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update form")
		return
	}

	if err := h.sessions.Save(ctx, id, st); err != nil {
		h.log.Error().Err(err).Msg("failed to save form session")
		writeError(w, http.StatusInternalServerError, "Failed to update form")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"field": field, "value": value})
}

// FormSubmit handles POST /: applies the posted fields, stores the submission,
// calls the submission endpoint and redirects back to the page.
func (h *Handler) FormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id := h.sessionID(w, r)
	st, err := h.sessions.Load(ctx, id)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load form session")
		http.Error(w, "Failed to submit form", http.StatusInternalServerError)
		return
	}

	// submit control is disabled while a submit is in flight
	if st.Loading {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	for _, field := range editableFields {
		if values, ok := r.PostForm[field]; ok && len(values) > 0 {
			if _, err := st.Change(field, values[0]); err != nil {
				h.log.Warn().Err(err).Str("field", field).Msg("form field not applied")
			}
		}
	}

	st.Loading = true
	if err := h.sessions.Save(ctx, id, st); err != nil {
		h.log.Error().Err(err).Msg("failed to save form session")
		http.Error(w, "Failed to submit form", http.StatusInternalServerError)
		return
	}

	h.runSubmit(ctx, id, st)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// runSubmit runs the submit and always persists the cleared Loading flag,
// even when the client went away or the submit panicked.
func (h *Handler) runSubmit(ctx context.Context, id string, st *form.State) {
	defer func() {
		st.Loading = false
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionSaveTimeout)
		defer cancel()
		if err := h.sessions.Save(saveCtx, id, st); err != nil {
			h.log.Error().Err(err).Str("session", id).Msg("failed to save form session")
		}
	}()

	h.form.Submit(ctx, st)
}

// sessionID returns the form session of the request, issuing a new cookie if there is none
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Form.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
