package book

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bookswap/model"
	booksvc "bookswap/service/book"
	"bookswap/util/imaging"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc       booksvc.Service
	V         *validator.Validate
	Log       *slog.Logger
	UploadDir string
}

// Create adds a listing owned by the caller.
// @Summary      Add a book listing
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body  BookReq  true  "Listing fields"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books [post]
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Create(c.Request().Context(), uid, input(req))
	if err != nil {
		h.Log.Error("book create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "book added", "book": b})
}

// Detail returns one listing.
// @Summary      Book detail
// @Tags         books
// @Produce      json
// @Param        id  path  int  true  "book id"
// @Success      200  {object}  model.Book
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// Update edits a listing owned by the caller.
// @Summary      Edit a book listing
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path  int      true  "book id"
// @Param        payload  body  BookReq  true  "Listing fields"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Update(c.Request().Context(), uid, id, input(req))
	if err != nil {
		return h.mapErr(c, "book update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated", "book": b})
}

// Delete removes a listing owned by the caller.
// @Summary      Delete a book listing
// @Tags         books
// @Produce      json
// @Param        id  path  int  true  "book id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		return h.mapErr(c, "book delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}

// ListMine lists the caller's listings, paginated.
// @Summary      My book listings
// @Tags         books
// @Produce      json
// @Param        page  query  int  false  "page number"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/my [get]
func (h *Controller) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	page, _ := strconv.Atoi(c.QueryParam("page"))

	rows, err := h.Svc.ListMine(c.Request().Context(), uid, page)
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Search filters all listings.
// @Summary      Search book listings
// @Tags         books
// @Produce      json
// @Param        q             query  string  false  "free text over title/author/genre"
// @Param        genre         query  string  false  "genre filter"
// @Param        availability  query  string  false  "available|unavailable"
// @Param        location      query  string  false  "location filter"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/search [get]
func (h *Controller) Search(c echo.Context) error {
	var req SearchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid query"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rows, err := h.Svc.Search(c.Request().Context(), model.BookSearch{
		Query:        req.Query,
		Genre:        req.Genre,
		Availability: model.AvailabilityStatus(req.Availability),
		Location:     req.Location,
		Page:         req.Page,
		PerPage:      req.PerPage,
	})
	if err != nil {
		h.Log.Error("book search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// UploadCover stores a resized cover image for an owned listing.
// @Summary      Upload a cover image
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true  "book id"
// @Param        cover  formData  file  true  "JPEG or PNG"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/books/{id}/cover [post]
func (h *Controller) UploadCover(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	fh, err := c.FormFile("cover")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cover file missing"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot read upload"})
	}
	defer src.Close()

	thumb, err := imaging.Thumbnail(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "file type not allowed"})
	}

	filename := coverFilename(id, time.Now())
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Log.Error("cover upload dir", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if err := os.WriteFile(filepath.Join(h.UploadDir, filename), thumb, 0o644); err != nil {
		h.Log.Error("cover write", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	if err := h.Svc.SetCover(c.Request().Context(), uid, id, filename); err != nil {
		return h.mapErr(c, "cover set", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cover uploaded", "cover_image": filename})
}

// coverFilename names stored covers after the book they belong to, so a
// re-upload for the same book sorts next to the old file.
func coverFilename(bookID int64, now time.Time) string {
	return fmt.Sprintf("book_%d_%s.jpg", bookID, now.UTC().Format("20060102150405"))
}

func input(req BookReq) booksvc.BookInput {
	return booksvc.BookInput{
		Title:        req.Title,
		Author:       req.Author,
		Genre:        req.Genre,
		Condition:    req.Condition,
		Location:     req.Location,
		Availability: model.AvailabilityStatus(req.Availability),
	}
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch booksvc.Code(err) {
	case booksvc.ErrUnauthorized:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you are not authorized to modify this book"})
	case booksvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case booksvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
