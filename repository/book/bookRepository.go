package bookrepo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	SetCoverImage(ctx context.Context, id int64, filename string) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Book, error)
	Search(ctx context.Context, q model.BookSearch) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, owner_id, title, author, genre, condition, availability_status, location, cover_image, date_posted`

func scanBook(row interface{ Scan(...any) error }, b *model.Book) error {
	return row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Genre, &b.Condition,
		&b.AvailabilityStatus, &b.Location, &b.CoverImage, &b.DatePosted)
}

func (r *repo) Insert(ctx context.Context, b *model.Book) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO books (owner_id, title, author, genre, condition, availability_status, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, date_posted`,
		b.OwnerID, b.Title, b.Author, b.Genre, b.Condition, b.AvailabilityStatus, b.Location,
	).Scan(&b.ID, &b.DatePosted)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := scanBook(r.db.QueryRowContext(ctx, `
		SELECT `+bookCols+`
		FROM books
		WHERE id = $1`, id), b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = $2, author = $3, genre = $4, condition = $5,
			availability_status = $6, location = $7
		WHERE id = $1`,
		b.ID, b.Title, b.Author, b.Genre, b.Condition, b.AvailabilityStatus, b.Location)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

func (r *repo) SetCoverImage(ctx context.Context, id int64, filename string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET cover_image = $2
		WHERE id = $1`, id, filename)
	return err
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookCols+`
		FROM books
		WHERE owner_id = $1
		ORDER BY date_posted DESC, id DESC
		LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Search builds the filter clause dynamically; every value goes through a
// placeholder.
func (r *repo) Search(ctx context.Context, q model.BookSearch) ([]model.Book, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Query != "" {
		p := arg("%" + q.Query + "%")
		where = append(where, "(title ILIKE "+p+" OR author ILIKE "+p+" OR genre ILIKE "+p+")")
	}
	if q.Genre != "" {
		where = append(where, "genre ILIKE "+arg("%"+q.Genre+"%"))
	}
	if q.Availability != "" {
		where = append(where, "availability_status = "+arg(string(q.Availability)))
	}
	if q.Location != "" {
		where = append(where, "location ILIKE "+arg("%"+q.Location+"%"))
	}

	sqlText := `SELECT ` + bookCols + ` FROM books`
	if len(where) > 0 {
		sqlText += " WHERE " + strings.Join(where, " AND ")
	}
	sqlText += " ORDER BY date_posted DESC, id DESC"
	sqlText += " LIMIT " + arg(q.PerPage) + " OFFSET " + arg((q.Page-1)*q.PerPage)

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Book, error) {
	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
