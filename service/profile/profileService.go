package profilesvc

import (
	"context"
	"database/sql"
	"errors"

	profilerepo "bookswap/repository/profile"

	"bookswap/model"
)

type ErrCode string

const ErrNotFound ErrCode = "NOT_FOUND"

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// ProfileInput carries the user-editable preference fields.
type ProfileInput struct {
	ReadingPreferences string
	FavoriteGenres     string
	BooksWanted        string
}

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, userID int64, in ProfileInput) (*model.Profile, error)
}

type service struct{ r profilerepo.Repo }

func New(r profilerepo.Repo) Service { return &service{r: r} }

func (s *service) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := s.r.ByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, userID int64, in ProfileInput) (*model.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.ReadingPreferences = in.ReadingPreferences
	p.FavoriteGenres = in.FavoriteGenres
	p.BooksWanted = in.BooksWanted
	if err := s.r.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
