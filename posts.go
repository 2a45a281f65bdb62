package pubhouse

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubhouse/blog"
)

func (a *App) handleAddPostForm(c echo.Context) error {
	cats, err := a.Blog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.PostForm(PostFormPage{
		Page:       a.page(c, "New Post", ""),
		Categories: cats,
	}))
}

func (a *App) handleAddPost(c echo.Context) error {
	img, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	post, err := a.Blog.CreatePost(c.Request().Context(), ActorFrom(c), blog.NewPost{
		Title:    c.FormValue("title"),
		Summary:  c.FormValue("summary"),
		Content:  c.FormValue("content"),
		Category: c.FormValue("category"),
		Tags:     c.FormValue("tags"),
		Status:   c.FormValue("status"),
		Image:    img,
		Date:     c.FormValue("date"),
	})
	if errors.Is(err, blog.ErrValidation) {
		return redirectWithFlash(c, "/add_post/", FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate(c.Request().Context())
	return redirectWithFlash(c, post.Link(), FlashSuccess, "Post created successfully!")
}

func (a *App) handleEditPostForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	post, err := a.Blog.EditablePost(ctx, ActorFrom(c), id)
	if err != nil {
		return err
	}
	cats, err := a.Blog.Categories(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.PostForm(PostFormPage{
		Page:       a.page(c, "Edit "+post.Title, ""),
		Post:       post,
		Categories: cats,
	}))
}

func (a *App) handleEditPost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	params, err := c.FormParams()
	if err != nil {
		return err
	}
	img, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	in := blog.PostEdit{
		Title:    formField(params, "title"),
		Summary:  formField(params, "summary"),
		Content:  formField(params, "content"),
		Status:   formField(params, "status"),
		Category: formField(params, "category"),
		Image:    img,
	}
	// Blank tags keep the current set.
	if tags := strings.TrimSpace(params.Get("tags")); tags != "" {
		in.Tags = &tags
	}

	post, err := a.Blog.EditPost(c.Request().Context(), ActorFrom(c), id, in)
	if errors.Is(err, blog.ErrValidation) {
		return redirectWithFlash(c, c.Request().URL.Path, FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate(c.Request().Context())
	return redirectWithFlash(c, post.Link(), FlashSuccess, "Post updated successfully!")
}

func (a *App) handleDeletePostForm(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	post, err := a.Blog.PrepareDelete(c.Request().Context(), ActorFrom(c), id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.DeleteConfirm(DeletePage{
		Page: a.page(c, "Delete "+post.Title, ""),
		Post: *post,
	}))
}

func (a *App) handleDeletePost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	if err := a.Blog.DeletePost(c.Request().Context(), ActorFrom(c), id); err != nil {
		return err
	}
	a.Cache.Invalidate(c.Request().Context())
	return redirectWithFlash(c, "/dashboard/", FlashSuccess, "Post deleted successfully!")
}

func (a *App) handleLike(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	res, err := a.Blog.Like(c.Request().Context(), ActorFrom(c), id)
	if errors.Is(err, blog.ErrAuthorization) && res.Post != nil {
		return redirectWithFlash(c, res.Post.Link(), FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	level := FlashSuccess
	if res.Outcome == blog.LikeAlreadyRecorded {
		level = FlashInfo
	}
	return redirectWithFlash(c, res.Post.Link(), level, res.Outcome.Message())
}

func (a *App) handleComment(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	post, err := a.Blog.Comment(c.Request().Context(), ActorFrom(c), id, c.FormValue("comment"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, post.Link())
}

// formField returns a pointer to the submitted value of key, or nil when
// the form did not include the field.
func formField(params map[string][]string, key string) *string {
	vals, ok := params[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

// formUpload returns the uploaded file named key, or nil when none was sent.
func formUpload(c echo.Context, key string) (*blog.Upload, error) {
	fh, err := c.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}
	return uploadFromHeader(fh), nil
}

func uploadFromHeader(fh *multipart.FileHeader) *blog.Upload {
	return &blog.Upload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}
