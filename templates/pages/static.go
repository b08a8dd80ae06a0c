package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// About renders the static about page.
func About() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>About Daybreak</h2>
<p>Daybreak is a small blog. Posts are written by the site owner; anyone with an account can join the conversation in the comments.</p>
</div>
</div>
`)
		return err
	})
}

// Contact renders the contact form, or a thank-you note once the
// message has been sent.
func Contact(name, email, phone, message, errorMsg string, sent bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
`); err != nil {
			return err
		}
		if sent {
			if _, err := io.WriteString(w, `<h2>Successfully sent your message!</h2>
<p>We will get back to you shortly.</p>
</div>
</div>
`); err != nil {
				return err
			}
			return nil
		}
		if _, err := io.WriteString(w, `<h2>Contact Me</h2>
<p>Have a question? Fill out the form below.</p>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/contact_with_us">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "name", "Name", name); err != nil {
			return err
		}
		if err := writeTextField(w, "email", "email", "Email address", email); err != nil {
			return err
		}
		if err := writeTextField(w, "tel", "phone", "Phone number", phone); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<div class="form-floating">
<textarea class="form-control" name="message" placeholder="Message">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(message)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</textarea>
<label for="message">Message</label>
</div>
<button class="btn btn-primary text-uppercase" type="submit">Send</button>
</form>
</div>
</div>
`)
		return err
	})
}
