// Package layouts holds the shared page chrome.
package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// NavData drives the header: which links to show and whose name to
// greet.
type NavData struct {
	LoggedIn bool
	IsAdmin  bool
	UserName string
	Flash    string
}

// Base wraps page content with the site header, navigation and footer.
func Base(title string, nav NavData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/css/styles.css">
</head>
<body>
<nav class="navbar navbar-expand-lg" id="mainNav">
<div class="container px-4 px-lg-5">
<a class="navbar-brand" href="/">Daybreak</a>
<ul class="navbar-nav ms-auto py-4 py-lg-0">
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/">Home</a></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/about_us">About</a></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/contact_with_us">Contact</a></li>
`, templ.EscapeString(title)); err != nil {
			return err
		}
		if nav.LoggedIn {
			if nav.IsAdmin {
				if _, err := io.WriteString(w, `<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/new_post">New Post</a></li>
`); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<li class="nav-item"><span class="nav-link px-lg-3 py-3 py-lg-4">%s</span></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/reset">Reset Password</a></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/delete">Delete Account</a></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/logout">Log Out</a></li>
`, templ.EscapeString(nav.UserName)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/login">Log In</a></li>
<li class="nav-item"><a class="nav-link px-lg-3 py-3 py-lg-4" href="/register">Register</a></li>
`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>
</div>
</nav>
<main class="mb-4">
<div class="container px-4 px-lg-5">
`); err != nil {
			return err
		}
		if nav.Flash != "" {
			if _, err := fmt.Fprintf(w, `<div class="alert alert-flash" role="alert">%s</div>
`, templ.EscapeString(nav.Flash)); err != nil {
				return err
			}
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>
</main>
<footer class="border-top">
<div class="container px-4 px-lg-5">
<div class="small text-center text-muted fst-italic">Copyright &copy; Daybreak</div>
</div>
</footer>
</body>
</html>
`)
		return err
	})
}
