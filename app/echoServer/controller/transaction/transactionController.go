package transaction

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/model"
	es "bookswap/service/exchange"
	ts "bookswap/service/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ts.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Overview lists the exchange requests backing the transactions page.
// @Summary      Transactions overview
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/transactions [get]
func (h *Controller) Overview(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	sent, received, err := h.Svc.Overview(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("transactions overview", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": sent, "received": received})
}

// CancelExchange cancels the underlying exchange request.
// @Summary      Cancel a transaction
// @Tags         transactions
// @Produce      json
// @Param        id  path  int  true  "exchange request id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "not a participant"
// @Failure      409  {object}  map[string]any "cannot cancel"
// @Security     BearerAuth
// @Router       /v1/transactions/exchanges/{id}/cancel [post]
func (h *Controller) CancelExchange(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	er, err := h.Svc.CancelExchange(c.Request().Context(), uid, id)
	if err != nil {
		switch es.Code(err) {
		case es.ErrUnauthorized:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you are not authorized to cancel this transaction"})
		case es.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "cannot cancel this transaction"})
		case es.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
		default:
			h.Log.Error("transaction cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "transaction canceled", "request": er})
}

type createRecordReq struct {
	ExchangeRequestID int64 `json:"exchange_request_id" validate:"required,gt=0"`
}

// CreateRecord opens a standalone transaction record.
// @Summary      Create a transaction record
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/transactions/records [post]
func (h *Controller) CreateRecord(c echo.Context) error {
	var req createRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	tr, err := h.Svc.CreateRecord(c.Request().Context(), uid, req.ExchangeRequestID)
	if err != nil {
		h.Log.Error("transaction record create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"transaction": tr})
}

// CompleteRecord marks a record completed.
// @Summary      Complete a transaction record
// @Tags         transactions
// @Produce      json
// @Param        id  path  int  true  "transaction id"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/transactions/records/{id}/complete [post]
func (h *Controller) CompleteRecord(c echo.Context) error {
	return h.recordTransition(c, h.Svc.CompleteRecord, "transaction completed")
}

// CancelRecord marks a record cancelled.
// @Summary      Cancel a transaction record
// @Tags         transactions
// @Produce      json
// @Param        id  path  int  true  "transaction id"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/transactions/records/{id}/cancel [post]
func (h *Controller) CancelRecord(c echo.Context) error {
	return h.recordTransition(c, h.Svc.CancelRecord, "transaction cancelled")
}

// Records lists the caller's transaction records.
// @Summary      List transaction records
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/transactions/records [get]
func (h *Controller) Records(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Records(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("transaction records", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) recordTransition(c echo.Context, op func(ctx context.Context, actorID, id int64) (*model.Transaction, error), msg string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	tr, err := op(c.Request().Context(), uid, id)
	if err != nil {
		switch ts.Code(err) {
		case ts.ErrUnauthorized:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ts.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "transaction already settled"})
		case ts.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		default:
			h.Log.Error("transaction transition", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "transaction": tr})
}
