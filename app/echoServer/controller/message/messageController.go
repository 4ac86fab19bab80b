package message

import (
	"log/slog"
	"net/http"
	"strconv"

	ms "bookswap/service/message"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ms.Service
	V   *validator.Validate
	Log *slog.Logger
}

type sendReq struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// Send delivers a message to another user.
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id       path  int      true  "receiver user id"
// @Param        payload  body  sendReq  true  "Message body"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "self message or bad payload"
// @Security     BearerAuth
// @Router       /v1/messages/users/{id} [post]
func (h *Controller) Send(c echo.Context) error {
	receiverID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || receiverID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	m, err := h.Svc.Send(c.Request().Context(), uid, receiverID, req.Content)
	if err != nil {
		switch ms.Code(err) {
		case ms.ErrSelfMessage:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "you cannot send messages to yourself"})
		case ms.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case ms.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("message send", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "message sent", "data": m})
}

// Conversation lists both directions with another user, oldest first.
// @Summary      Conversation with a user
// @Tags         messages
// @Produce      json
// @Param        id  path  int  true  "other user id"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/messages/conversations/{id} [get]
func (h *Controller) Conversation(c echo.Context) error {
	otherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || otherID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	msgs, err := h.Svc.Conversation(c.Request().Context(), uid, otherID)
	if err != nil {
		switch ms.Code(err) {
		case ms.ErrSelfMessage:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "you cannot have a conversation with yourself"})
		case ms.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("conversation", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": msgs})
}

// Inbox lists received messages, newest first.
// @Summary      Inbox
// @Tags         messages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/messages/inbox [get]
func (h *Controller) Inbox(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	msgs, err := h.Svc.Inbox(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("inbox", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": msgs})
}

// Sent lists sent messages, newest first.
// @Summary      Sent messages
// @Tags         messages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/messages/sent [get]
func (h *Controller) Sent(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	msgs, err := h.Svc.Sent(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("sent messages", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": msgs})
}
