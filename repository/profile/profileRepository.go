package profilerepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, p *model.Profile) error
	ByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, p *model.Profile) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, reading_preferences, favorite_genres, books_wanted)
		VALUES ($1,$2,$3,$4)
		RETURNING id`,
		p.UserID, p.ReadingPreferences, p.FavoriteGenres, p.BooksWanted,
	).Scan(&p.ID)
}

func (r *repo) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, reading_preferences, favorite_genres, books_wanted
		FROM profiles
		WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.ReadingPreferences, &p.FavoriteGenres, &p.BooksWanted)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Update(ctx context.Context, p *model.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET reading_preferences = $2, favorite_genres = $3, books_wanted = $4
		WHERE user_id = $1`,
		p.UserID, p.ReadingPreferences, p.FavoriteGenres, p.BooksWanted)
	return err
}
