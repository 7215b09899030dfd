package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/draft"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/notice"
)

// statusFor maps an error to its HTTP status through its notice class.
func statusFor(err error) int {
	switch notice.Classify(err) {
	case notice.Inline:
		if errors.Is(err, draft.ErrSeatBooked) {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	case notice.Notice:
		if errors.Is(err, model.ErrNotFound) {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case notice.Redirect:
		return http.StatusUnauthorized
	}
	return http.StatusServiceUnavailable
}

// fail writes err as {"error", "class", "field"?}.  Retry-class errors are
// logged with their detail, which the client never sees.
func (h *Handler) fail(c echo.Context, err error) error {
	class := notice.Classify(err)
	if class == notice.Retry {
		h.Log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
	}
	body := echo.Map{"error": notice.Message(err), "class": class}
	if f := notice.Field(err); f != "" {
		body["field"] = f
	}
	return c.JSON(statusFor(err), body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "class": notice.Inline})
}
