package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// PostDeleteConfirm renders the are-you-sure page before a post is
// removed together with its comments.
func PostDeleteConfirm(postID int64, title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>Delete Post</h2>
<p>Are you sure you want to delete &ldquo;%s&rdquo;? Its comments go with it.</p>
<form method="post" action="/are_you_sure/%d/%s">
<button class="btn btn-danger text-uppercase" type="submit">Yes, delete it</button>
</form>
<p><a href="/">Take me back</a></p>
</div>
</div>
`, templ.EscapeString(title), postID, url.PathEscape(title))
		return err
	})
}

// PostForm carries the editor's field values, round-tripped on a
// validation failure.
type PostForm struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

// Editor renders the post editor, shared between creating and editing.
// When editing, action points at the edit route and the form arrives
// pre-filled.
func Editor(heading, action string, form PostForm, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h2>%s</h2>
`, templ.EscapeString(heading)); err != nil {
			return err
		}
		if err := writeFormError(w, errorMsg); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<form method="post" action="%s">
`, templ.EscapeString(action)); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "title", "Title", form.Title); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "subtitle", "Subtitle", form.Subtitle); err != nil {
			return err
		}
		if err := writeTextField(w, "text", "img_url", "Image URL", form.ImgURL); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<div class="form-floating">
<textarea class="form-control" name="body" placeholder="Post body">%s</textarea>
<label for="body">Body</label>
</div>
<button class="btn btn-primary text-uppercase" type="submit">Publish</button>
</form>
</div>
</div>
`, templ.EscapeString(form.Body)); err != nil {
			return err
		}
		return nil
	})
}
