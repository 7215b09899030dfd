package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// ListItems handles GET /v1/items.  Query: type (event|meetup), q (title or
// location substring), when (upcoming|any, default upcoming), page and
// page_size (default 20, max 100).
func (h *Handler) ListItems(c echo.Context) error {
	f := model.ItemFilter{
		Type:  model.ItemType(strings.ToLower(strings.TrimSpace(c.QueryParam("type")))),
		Query: strings.TrimSpace(c.QueryParam("q")),
		When:  strings.ToLower(strings.TrimSpace(c.QueryParam("when"))),
	}
	switch f.Type {
	case "", model.ItemEvent, model.ItemMeetup:
	default:
		return badRequest(c, "type must be event or meetup")
	}
	if f.When == "" {
		f.When = "upcoming"
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if f.Page < 1 {
		f.Page = 1
	}
	f.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	ctx := c.Request().Context()
	items, err := h.Backend.ListItems(ctx, f)
	if err != nil {
		return h.fail(c, err)
	}
	total, err := h.Backend.CountItems(ctx, f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      f.Page,
		"page_size": f.PageSize,
	})
}

// GetItem handles GET /v1/items/:id.
func (h *Handler) GetItem(c echo.Context) error {
	it, err := h.Backend.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}
