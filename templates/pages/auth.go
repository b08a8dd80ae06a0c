package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func writeFormError(w io.Writer, msg string) error {
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<div class="alert alert-danger" role="alert">%s</div>
`, templ.EscapeString(msg))
	return err
}

func writeTextField(w io.Writer, typ, name, label, value string) error {
	_, err := fmt.Fprintf(w, `<div class="form-floating">
<input class="form-control" type="%s" name="%s" value="%s">
<label for="%s">%s</label>
</div>
`, typ, name, templ.EscapeString(value), name, label)
	return err
}

// Login renders the sign-in form. A failed attempt round-trips the
// submitted email so the user only retypes the password.
func Login(email, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Log In</h2>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/login">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "email", "email", "Email address", email); err != nil {
			return err
		}
		if err := writeTextField(w, "password", "password", "Password", ""); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button class="btn btn-primary text-uppercase" type="submit">Log In</button>
</form>
<p><a href="/forgot_password">Forgot password?</a></p>
</div>
</div>
`)
		return err
	})
}

// Register renders the sign-up form, round-tripping whichever fields
// survived validation.
func Register(name, email, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Register</h2>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/register">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "name", "Name", name); err != nil {
			return err
		}
		if err := writeTextField(w, "email", "email", "Email address", email); err != nil {
			return err
		}
		if err := writeTextField(w, "password", "password", "Password", ""); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button class="btn btn-primary text-uppercase" type="submit">Sign Up</button>
</form>
</div>
</div>
`)
		return err
	})
}
