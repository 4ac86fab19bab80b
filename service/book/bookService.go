package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	bookrepo "bookswap/repository/book"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Listings the original UI shows per page.
const PerPage = 9

// BookInput carries the owner-editable listing fields. Availability is
// optional; empty leaves the current status alone.
type BookInput struct {
	Title        string
	Author       string
	Genre        string
	Condition    string
	Location     string
	Availability model.AvailabilityStatus
}

type Service interface {
	Create(ctx context.Context, ownerID int64, in BookInput) (*model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, actorID, bookID int64, in BookInput) (*model.Book, error)
	Delete(ctx context.Context, actorID, bookID int64) error
	SetCover(ctx context.Context, actorID, bookID int64, filename string) error
	ListMine(ctx context.Context, ownerID int64, page int) ([]model.Book, error)
	Search(ctx context.Context, q model.BookSearch) ([]model.Book, error)
}

type service struct{ r bookrepo.Repo }

func New(r bookrepo.Repo) Service { return &service{r: r} }

func (in BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Author) == "" ||
		strings.TrimSpace(in.Genre) == "" ||
		strings.TrimSpace(in.Condition) == "" ||
		strings.TrimSpace(in.Location) == "" {
		return makeErr(ErrBadInput)
	}
	switch in.Availability {
	case "", model.BookAvailable, model.BookUnavailable:
	default:
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) Create(ctx context.Context, ownerID int64, in BookInput) (*model.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &model.Book{
		OwnerID:            ownerID,
		Title:              in.Title,
		Author:             in.Author,
		Genre:              in.Genre,
		Condition:          in.Condition,
		AvailabilityStatus: model.BookAvailable,
		Location:           in.Location,
	}
	if err := s.r.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, actorID, bookID int64, in BookInput) (*model.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.owned(ctx, actorID, bookID)
	if err != nil {
		return nil, err
	}
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.Condition = in.Condition
	b.Location = in.Location
	if in.Availability != "" {
		b.AvailabilityStatus = in.Availability
	}
	if err := s.r.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, actorID, bookID int64) error {
	if _, err := s.owned(ctx, actorID, bookID); err != nil {
		return err
	}
	return s.r.Delete(ctx, bookID)
}

func (s *service) SetCover(ctx context.Context, actorID, bookID int64, filename string) error {
	if _, err := s.owned(ctx, actorID, bookID); err != nil {
		return err
	}
	return s.r.SetCoverImage(ctx, bookID, filename)
}

func (s *service) ListMine(ctx context.Context, ownerID int64, page int) ([]model.Book, error) {
	if page < 1 {
		page = 1
	}
	return s.r.ListByOwner(ctx, ownerID, PerPage, (page-1)*PerPage)
}

func (s *service) Search(ctx context.Context, q model.BookSearch) ([]model.Book, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 50 {
		q.PerPage = 10
	}
	return s.r.Search(ctx, q)
}

func (s *service) owned(ctx context.Context, actorID, bookID int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if b.OwnerID != actorID {
		return nil, makeErr(ErrUnauthorized)
	}
	return b, nil
}
