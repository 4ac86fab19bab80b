package profile

import (
	"log/slog"
	"net/http"
	"strconv"

	ps "bookswap/service/profile"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

type updateReq struct {
	ReadingPreferences string `json:"reading_preferences" validate:"max=500"`
	FavoriteGenres     string `json:"favorite_genres" validate:"max=500"`
	BooksWanted        string `json:"books_wanted" validate:"max=500"`
}

// Me returns the authenticated user's profile.
// @Summary      Own profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/profile [get]
func (h *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	return h.respond(c, uid)
}

// ByUser returns another user's public profile.
// @Summary      Profile by user id
// @Tags         profiles
// @Produce      json
// @Param        id  path  int  true  "user id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/profile/users/{id} [get]
func (h *Controller) ByUser(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return h.respond(c, userID)
}

// Update replaces the authenticated user's preference fields.
// @Summary      Update own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        payload  body  updateReq  true  "Profile fields"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/profile [put]
func (h *Controller) Update(c echo.Context) error {
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	p, err := h.Svc.Update(c.Request().Context(), uid, ps.ProfileInput{
		ReadingPreferences: req.ReadingPreferences,
		FavoriteGenres:     req.FavoriteGenres,
		BooksWanted:        req.BooksWanted,
	})
	if err != nil {
		if ps.Code(err) == ps.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated", "data": p})
}

func (h *Controller) respond(c echo.Context, userID int64) error {
	p, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		if ps.Code(err) == ps.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}
