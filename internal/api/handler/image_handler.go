package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webblog/publishing-api/internal/api/metrics"
	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// ImageHandler handles image uploads, removals and downloads.
type ImageHandler struct {
	service ports.PostService
}

func NewImageHandler(service ports.PostService) *ImageHandler {
	return &ImageHandler{service: service}
}

// Attach handles POST /posts/:postId/images. The upload is a multipart
// form with the file under the "image" field.
//
// @Summary      Attach an image to a post
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post id"
// @Param        image   formData  file    true  "Image file"
// @Success      201     {object}  imageResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /posts/{postId}/images [post]
func (h *ImageHandler) Attach(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing image file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image file")
	}
	defer src.Close()

	image, err := h.service.AttachImage(c.Request().Context(), ports.AttachImageInput{
		AuthorID:         userID,
		PostID:           c.Param("postId"),
		OriginalFilename: fileHeader.Filename,
		Data:             src,
	})
	if err != nil {
		return err
	}

	metrics.ImagesUploadedTotal.Inc()
	return c.JSON(http.StatusCreated, toImageResponse(image))
}

// Detach handles DELETE /posts/:postId/images/:imageId.
//
// @Summary      Remove an image from a post
// @Tags         images
// @Security     BearerAuth
// @Param        postId   path  string  true  "Post id"
// @Param        imageId  path  string  true  "Image id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts/{postId}/images/{imageId} [delete]
func (h *ImageHandler) Detach(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DetachImage(c.Request().Context(), userID, c.Param("postId"), c.Param("imageId")); err != nil {
		return err
	}

	metrics.ImagesDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Serve handles GET /images/:fileName. Access is checked against the
// store on every request before any bytes are read.
//
// @Summary      Download a stored image
// @Tags         images
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        fileName  path  string  true  "Stored file name"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /images/{fileName} [get]
func (h *ImageHandler) Serve(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	fileName := c.Param("fileName")

	allowed, err := h.service.UserHasAccessToFile(ctx, userID, fileName)
	if err != nil {
		return err
	}
	if !allowed {
		metrics.FileAccessDeniedTotal.Inc()
		return domain.ErrForbidden
	}

	rc, contentType, err := h.service.OpenFile(ctx, fileName)
	if err != nil {
		return err
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, contentType, rc)
}
