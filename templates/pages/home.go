// Package pages holds the per-route page bodies.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// PostCard is the summary shown on the index page.
type PostCard struct {
	ID         int64
	Title      string
	Subtitle   string
	AuthorName string
	Date       string
}

// Home renders the post index.
func Home(posts []PostCard, isAdmin bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
`); err != nil {
			return err
		}
		if len(posts) == 0 {
			if _, err := io.WriteString(w, `<p>No posts yet.</p>
`); err != nil {
				return err
			}
		}
		for _, p := range posts {
			if _, err := fmt.Fprintf(w, `<div class="post-preview">
<a href="/post/%d">
<h2 class="post-title">%s</h2>
<h3 class="post-subtitle">%s</h3>
</a>
<p class="post-meta">Posted by %s on %s`,
				p.ID,
				templ.EscapeString(p.Title),
				templ.EscapeString(p.Subtitle),
				templ.EscapeString(p.AuthorName),
				templ.EscapeString(p.Date),
			); err != nil {
				return err
			}
			if isAdmin {
				if _, err := fmt.Fprintf(w, ` <a href="/edit-post/%d">Edit</a> <a href="/are_you_sure/%d/%s">Delete</a>`, p.ID, p.ID, url.PathEscape(p.Title)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</p>
<hr class="my-4">
</div>
`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>
</div>
`)
		return err
	})
}
