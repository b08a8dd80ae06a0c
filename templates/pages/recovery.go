package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SendCode renders step one of password recovery: asking for the
// account email.
func SendCode(email, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Forgot Password</h2>
<p>Enter your email and we will send you a confirmation code.</p>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/forgot_password">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "email", "email", "Email address", email); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button class="btn btn-primary text-uppercase" type="submit">Send Code</button>
</form>
</div>
</div>
`)
		return err
	})
}

// VerifyCode renders step two: submitting the mailed code.
func VerifyCode(errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Check Your Email</h2>
<p>We sent a confirmation code to your email address. Enter it below.</p>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/forgot_password/verification">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "code", "Confirmation code", ""); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button class="btn btn-primary text-uppercase" type="submit">Verify</button>
</form>
</div>
</div>
`)
		return err
	})
}

// ResetPassword renders the new-password form shown after a verified
// code or from account settings.
func ResetPassword(errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Reset Password</h2>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<form method="post" action="/reset">
`); err != nil {
			return err
		}
		if err := writeTextField(w, "password", "password", "New password", ""); err != nil {
			return err
		}
		if err := writeTextField(w, "password", "password_confirm", "Repeat new password", ""); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button class="btn btn-primary text-uppercase" type="submit">Change Password</button>
</form>
</div>
</div>
`)
		return err
	})
}
