package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daybreakhq/daybreak/internal/middleware"
	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/validation"
	"github.com/daybreakhq/daybreak/templates/pages"
)

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// Home renders the post index.
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cards := make([]pages.PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, pages.PostCard{
			ID:         p.ID,
			Title:      p.Title,
			Subtitle:   p.Subtitle,
			AuthorName: p.AuthorName,
			Date:       p.Date,
		})
	}

	user := middleware.UserFromContext(r.Context())
	isAdmin := user != nil && user.Email == h.adminEmail
	h.render(w, r, "Daybreak", pages.Home(cards, isAdmin))
}

func (h *WebHandler) renderPost(w http.ResponseWriter, r *http.Request, post *models.Post, commentError string) {
	comments, err := h.posts.ListComments(r.Context(), post.ID)
	if err != nil {
		h.logger.Error("failed to list comments", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := middleware.UserFromContext(r.Context())
	views := make([]pages.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, pages.CommentView{
			ID:           c.ID,
			Text:         c.Text,
			AuthorName:   c.AuthorName,
			AuthorAvatar: c.AuthorAvatar,
			OwnedByUser:  user != nil && c.AuthorID == user.ID,
		})
	}

	view := pages.PostView{
		ID:         post.ID,
		Title:      post.Title,
		Subtitle:   post.Subtitle,
		AuthorName: post.AuthorName,
		Date:       post.Date,
		Body:       post.Body,
		ImgURL:     post.ImgURL,
	}
	h.render(w, r, post.Title, pages.Post(view, views, user != nil, commentError))
}

// PostPage renders a post with its comments.
func (h *WebHandler) PostPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		if weberrors.AsWebError(err) == weberrors.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.renderPost(w, r, post, "")
}

// AddComment attaches a comment to a post. Anonymous visitors are sent
// to the login page instead.
func (h *WebHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login?flash="+url.QueryEscape("You need to login or register to comment."), http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.CommentForm{Body: r.FormValue("comment")}
	if verr := h.forms.Validate(form); verr != nil {
		post, err := h.posts.GetPost(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		h.renderPost(w, r, post, verr.Message)
		return
	}

	if _, err := h.posts.AddComment(r.Context(), id, user.ID, form.Body); err != nil {
		if weberrors.AsWebError(err) == weberrors.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to add comment", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	middleware.IncrementCommentsCreated()
	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// DeleteComment removes the requester's own comment.
func (h *WebHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	postID, err := parseID(r, "post_id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.posts.DeleteComment(r.Context(), commentID, user.ID); err != nil {
		switch weberrors.AsWebError(err) {
		case weberrors.ErrNotFound:
			http.NotFound(w, r)
		case weberrors.ErrForbidden:
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			h.logger.Error("failed to delete comment", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/post/"+strconv.FormatInt(postID, 10), http.StatusSeeOther)
}

// NewPostPage renders an empty editor.
func (h *WebHandler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "New Post", pages.Editor("New Post", "/new_post", pages.PostForm{}, ""))
}

func postFormFromRequest(r *http.Request) validation.PostForm {
	return validation.PostForm{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		ImgURL:   r.FormValue("img_url"),
		Body:     r.FormValue("body"),
	}
}

func editorForm(form validation.PostForm) pages.PostForm {
	return pages.PostForm{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImgURL:   form.ImgURL,
		Body:     form.Body,
	}
}

// NewPost publishes a post.
func (h *WebHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := postFormFromRequest(r)
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "New Post", pages.Editor("New Post", "/new_post", editorForm(form), verr.Message))
		return
	}

	user := middleware.UserFromContext(r.Context())
	_, err := h.posts.CreatePost(r.Context(), user.ID, form.Title, form.Subtitle, form.ImgURL, form.Body)
	if err != nil {
		if weberrors.IsKind(err, weberrors.KindConflict) {
			// Duplicate title comes back with the title field cleared.
			view := editorForm(form)
			view.Title = ""
			h.render(w, r, "New Post", pages.Editor("New Post", "/new_post", view, weberrors.AsWebError(err).Message))
			return
		}
		h.logger.Error("failed to create post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	middleware.IncrementPostsCreated()
	h.pace()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditPostPage renders the editor pre-filled with an existing post.
func (h *WebHandler) EditPostPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		if weberrors.AsWebError(err) == weberrors.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	form := pages.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	action := "/edit-post/" + strconv.FormatInt(id, 10)
	h.render(w, r, "Edit Post", pages.Editor("Edit Post", action, form, ""))
}

// EditPost rewrites an existing post.
func (h *WebHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	action := "/edit-post/" + strconv.FormatInt(id, 10)
	form := postFormFromRequest(r)
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Edit Post", pages.Editor("Edit Post", action, editorForm(form), verr.Message))
		return
	}

	if _, err := h.posts.UpdatePost(r.Context(), id, form.Title, form.Subtitle, form.ImgURL, form.Body); err != nil {
		switch {
		case weberrors.AsWebError(err) == weberrors.ErrNotFound:
			http.NotFound(w, r)
		case weberrors.IsKind(err, weberrors.KindConflict):
			view := editorForm(form)
			view.Title = ""
			h.render(w, r, "Edit Post", pages.Editor("Edit Post", action, view, weberrors.AsWebError(err).Message))
		default:
			h.logger.Error("failed to update post", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.pace()
	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// DeletePostPage renders the are-you-sure page for a post.
func (h *WebHandler) DeletePostPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	name := chi.URLParam(r, "name")
	h.render(w, r, "Delete Post", pages.PostDeleteConfirm(id, name))
}

// DeletePost removes a post and its comments.
func (h *WebHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.posts.DeletePost(r.Context(), id); err != nil {
		if weberrors.AsWebError(err) == weberrors.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to delete post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.pace()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
