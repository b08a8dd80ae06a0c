package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// DeleteConfirm renders the are-you-sure page before an account is
// removed along with everything it authored.
func DeleteConfirm(errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Delete Account</h2>
<p>This removes your account, your posts and your comments. There is no undo.</p>
`); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<form method="post" action="/delete">
<button class="btn btn-danger text-uppercase" type="submit">Yes, delete my account</button>
</form>
<p><a href="/">Take me back</a></p>
</div>
</div>
`)
		return err
	})
}
