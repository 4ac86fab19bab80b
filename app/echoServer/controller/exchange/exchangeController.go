package exchange

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/app/echoServer/jwtx"
	"bookswap/model"
	es "bookswap/service/exchange"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc es.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Create opens an exchange request against a book.
// @Summary      Request an exchange
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "book id"
// @Param        payload  body  CreateExchangeReq  true  "Exchange terms"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "own book or bad payload"
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/exchanges/books/{id}/requests [post]
func (h *Controller) Create(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CreateExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	er, err := h.Svc.Create(c.Request().Context(), uid, bookID, req.DeliveryMethod, req.ExchangeDuration)
	if err != nil {
		switch es.Code(err) {
		case es.ErrSelfExchange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "you cannot exchange your own book"})
		case es.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("exchange create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "exchange request sent", "request": er})
}

// List returns the caller's sent and received requests.
// @Summary      List exchange requests
// @Tags         exchanges
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/exchanges/requests [get]
func (h *Controller) List(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	sent, received, err := h.Svc.Requests(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("exchange list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": sent, "received": received})
}

// Accept accepts a pending request.
// @Summary      Accept an exchange request
// @Tags         exchanges
// @Produce      json
// @Param        id  path  int  true  "request id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "not the receiver"
// @Failure      409  {object}  map[string]any "already processed"
// @Security     BearerAuth
// @Router       /v1/exchanges/requests/{id}/accept [post]
func (h *Controller) Accept(c echo.Context) error {
	return h.respond(c, h.Svc.Accept, "exchange request accepted")
}

// Reject rejects a pending request.
// @Summary      Reject an exchange request
// @Tags         exchanges
// @Produce      json
// @Param        id  path  int  true  "request id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "not the receiver"
// @Failure      409  {object}  map[string]any "already processed"
// @Security     BearerAuth
// @Router       /v1/exchanges/requests/{id}/reject [post]
func (h *Controller) Reject(c echo.Context) error {
	return h.respond(c, h.Svc.Reject, "exchange request rejected")
}

func (h *Controller) respond(c echo.Context, op func(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error), msg string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	er, err := op(c.Request().Context(), uid, id)
	if err != nil {
		switch es.Code(err) {
		case es.ErrUnauthorized:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you are not authorized to respond to this request"})
		case es.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "this exchange request has already been processed"})
		case es.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
		default:
			h.Log.Error("exchange respond", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "request": er})
}
