package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// BlogHandler serves /blog/posts. Reads are public; writes are author-only.
type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /blog/posts.
//
// @Summary      List posts, newest first
// @Tags         blog
// @Produce      json
// @Success      200  {array}   postResponse
// @Router       /blog/posts [get]
func (h *BlogHandler) List(c echo.Context) error {
	posts, err := h.service.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Create handles POST /blog/posts. The caller becomes the author.
//
// @Summary      Create a post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /blog/posts [post]
func (h *BlogHandler) Create(c echo.Context) error {
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), caller(c), req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Get handles GET /blog/posts/:id.
//
// @Summary      Get a post
// @Tags         blog
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /blog/posts/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	post, err := h.service.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Replace handles PUT /blog/posts/:id.
//
// @Summary      Replace a post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post id"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blog/posts/{id} [put]
func (h *BlogHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), caller(c), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update handles PATCH /blog/posts/:id.
//
// @Summary      Partially update a post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Post id"
// @Param        body  body      postPatchRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blog/posts/{id} [patch]
func (h *BlogHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req postPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), caller(c), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /blog/posts/:id.
//
// @Summary      Delete a post
// @Tags         blog
// @Security     BearerAuth
// @Param        id   path  int  true  "Post id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blog/posts/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.Request().Context(), caller(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MyPosts handles GET /blog/posts/my_posts.
//
// @Summary      List own posts
// @Tags         blog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Router       /blog/posts/my_posts [get]
func (h *BlogHandler) MyPosts(c echo.Context) error {
	posts, err := h.service.ListMyPosts(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}
