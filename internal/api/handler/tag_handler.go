package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realworld/conduit-api/internal/core/ports"
)

type TagHandler struct {
	service ports.TagService
}

func NewTagHandler(service ports.TagService) *TagHandler {
	return &TagHandler{service: service}
}

// List handles GET /tags.
//
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Success      200  {object}  tagsResponse
// @Failure      500  {object}  errorResponse
// @Router       /tags [get]
func (h *TagHandler) List(c echo.Context) error {
	names, err := h.service.ListNames(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tagsResponse{Tags: names})
}
