package web

import (
	"fmt"
	"net/http"

	"github.com/daybreakhq/daybreak/internal/validation"
	"github.com/daybreakhq/daybreak/templates/pages"
)

// About renders the static about page.
func (h *WebHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "About", pages.About())
}

// ContactPage renders the contact form.
func (h *WebHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Contact", pages.Contact("", "", "", "", "", false))
}

// Contact relays the visitor's message to the site inbox.
func (h *WebHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.ContactForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Contact", pages.Contact(form.Name, form.Email, form.Phone, form.Message, verr.Message, false))
		return
	}

	subject := fmt.Sprintf("New message from %s", form.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone Number: %s\nMessage: %s",
		form.Name, form.Email, form.Phone, form.Message)

	if err := h.mail.Send(r.Context(), h.contactTo, subject, body); err != nil {
		h.logger.Error("contact mail dispatch failed", "error", err)
		h.render(w, r, "Contact", pages.Contact(form.Name, form.Email, form.Phone, form.Message,
			"We couldn't send your message. Try again later.", false))
		return
	}

	h.render(w, r, "Contact", pages.Contact("", "", "", "", "", true))
}
