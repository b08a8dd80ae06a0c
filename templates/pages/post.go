package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// PostView is the full post shown on its own page.
type PostView struct {
	ID         int64
	Title      string
	Subtitle   string
	AuthorName string
	Date       string
	Body       string
	ImgURL     string
}

// CommentView is a single rendered comment.
type CommentView struct {
	ID           int64
	Text         string
	AuthorName   string
	AuthorAvatar string
	OwnedByUser  bool
}

// Post renders a post with its comment thread. The comment form only
// appears for logged-in readers.
func Post(post PostView, comments []CommentView, loggedIn bool, commentError string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<header class="masthead" style="background-image: url('%s')">
<div class="container position-relative px-4 px-lg-5">
<div class="post-heading">
<h1>%s</h1>
<h2 class="subheading">%s</h2>
<span class="meta">Posted by %s on %s</span>
</div>
</div>
</header>
<article class="mb-4">
<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<p>%s</p>
</div>
</div>
</article>
<section class="comments">
<div class="row gx-4 gx-lg-5 justify-content-center">
<div class="col-md-10 col-lg-8 col-xl-7">
<h3>Comments</h3>
`,
			templ.EscapeString(post.ImgURL),
			templ.EscapeString(post.Title),
			templ.EscapeString(post.Subtitle),
			templ.EscapeString(post.AuthorName),
			templ.EscapeString(post.Date),
			templ.EscapeString(post.Body),
		); err != nil {
			return err
		}
		for _, c := range comments {
			if _, err := fmt.Fprintf(w, `<div class="comment">
<img class="comment-avatar" src="%s" alt="">
<p class="comment-meta">%s</p>
<p class="comment-text">%s`,
				templ.EscapeString(c.AuthorAvatar),
				templ.EscapeString(c.AuthorName),
				templ.EscapeString(c.Text),
			); err != nil {
				return err
			}
			if c.OwnedByUser {
				if _, err := fmt.Fprintf(w, ` <a href="/delete_comment/%d/%d">Delete</a>`, c.ID, post.ID); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</p>
</div>
`); err != nil {
				return err
			}
		}
		if loggedIn {
			if commentError != "" {
				if _, err := fmt.Fprintf(w, `<div class="alert alert-danger" role="alert">%s</div>
`, templ.EscapeString(commentError)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<form method="post" action="/post/%d">
<div class="form-floating">
<textarea class="form-control" name="comment" placeholder="Leave a comment"></textarea>
<label for="comment">Comment</label>
</div>
<button class="btn btn-primary text-uppercase" type="submit">Submit Comment</button>
</form>
`, post.ID); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<p><a href="/login">Log in</a> to leave a comment.</p>
`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>
</div>
</section>
`)
		return err
	})
}
