package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webblog/publishing-api/internal/api/metrics"
	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// PostHandler handles HTTP requests for the post lifecycle.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts.
//
// @Summary      Create a draft post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key; may also be sent in the body"
// @Param        body             body      createPostRequest  true   "Post details"
// @Success      201              {object}  postResponse
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		AuthorID:       userID,
		Title:          req.Title,
		Content:        req.Content,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Get handles GET /posts/:postId.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post id"
// @Success      200     {object}  postResponse
// @Failure      404     {object}  errorResponse
// @Router       /posts/{postId} [get]
func (h *PostHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	post, err := h.service.GetPost(c.Request().Context(), userID, c.Param("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Edit handles PUT /posts/:postId.
//
// @Summary      Edit a post's title and content
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string           true  "Post id"
// @Param        body    body      editPostRequest  true  "New title and content"
// @Success      200     {object}  postResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /posts/{postId} [put]
func (h *PostHandler) Edit(c echo.Context) error {
	var req editPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	post, err := h.service.EditPost(c.Request().Context(), ports.EditPostInput{
		UserID:  userID,
		PostID:  c.Param("postId"),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Publish handles PATCH /posts/:postId/status.
//
// @Summary      Publish a draft post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string              true  "Post id"
// @Param        body    body      publishPostRequest  true  "Target status; only \"Published\" is accepted"
// @Success      200     {object}  postResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Router       /posts/{postId}/status [patch]
func (h *PostHandler) Publish(c echo.Context) error {
	var req publishPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	post, err := h.service.PublishPost(c.Request().Context(), userID, c.Param("postId"))
	if err != nil {
		return err
	}

	metrics.PostsPublishedTotal.Inc()
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// List handles GET /posts. What the caller sees depends on their role:
// authors get their own posts, drafts included; readers get the
// published feed.
//
// @Summary      List posts visible to the caller
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  postResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	role, _ := c.Get("role").(string)
	if role == domain.RoleAuthor {
		return h.ListMine(c)
	}
	return h.ListPublished(c)
}

// ListMine handles GET /posts/mine.
//
// @Summary      List the caller's posts, drafts included
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  postResponse
// @Router       /posts/mine [get]
func (h *PostHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListForAuthor(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostListResponse(posts))
}

// ListPublished returns the published feed.
func (h *PostHandler) ListPublished(c echo.Context) error {
	posts, err := h.service.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostListResponse(posts))
}
