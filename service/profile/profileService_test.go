package profilesvc

import (
	"context"
	"database/sql"
	"testing"

	"bookswap/model"

	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn   func(ctx context.Context, p *model.Profile) error
	byUserIDFn func(ctx context.Context, userID int64) (*model.Profile, error)
	updateFn   func(ctx context.Context, p *model.Profile) error

	updateCalls int
}

func (m *mockRepo) Insert(ctx context.Context, p *model.Profile) error { return m.insertFn(ctx, p) }
func (m *mockRepo) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	return m.byUserIDFn(ctx, userID)
}
func (m *mockRepo) Update(ctx context.Context, p *model.Profile) error {
	m.updateCalls++
	return m.updateFn(ctx, p)
}

func TestGet_Found(t *testing.T) {
	r := &mockRepo{
		byUserIDFn: func(_ context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{ID: 1, UserID: userID, FavoriteGenres: "sci-fi"}, nil
		},
	}
	svc := New(r)

	p, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.UserID)
	require.Equal(t, "sci-fi", p.FavoriteGenres)
}

func TestGet_Missing(t *testing.T) {
	r := &mockRepo{
		byUserIDFn: func(context.Context, int64) (*model.Profile, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(r)

	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestUpdate_ReplacesFields(t *testing.T) {
	r := &mockRepo{
		byUserIDFn: func(_ context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{ID: 1, UserID: userID, ReadingPreferences: "old"}, nil
		},
		updateFn: func(_ context.Context, p *model.Profile) error { return nil },
	}
	svc := New(r)

	p, err := svc.Update(context.Background(), 7, ProfileInput{
		ReadingPreferences: "paperbacks only",
		FavoriteGenres:     "mystery",
		BooksWanted:        "anything by Le Guin",
	})
	require.NoError(t, err)
	require.Equal(t, 1, r.updateCalls)
	require.Equal(t, "paperbacks only", p.ReadingPreferences)
	require.Equal(t, "mystery", p.FavoriteGenres)
	require.Equal(t, "anything by Le Guin", p.BooksWanted)
}

func TestUpdate_MissingProfile(t *testing.T) {
	r := &mockRepo{
		byUserIDFn: func(context.Context, int64) (*model.Profile, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(r)

	_, err := svc.Update(context.Background(), 7, ProfileInput{})
	require.Equal(t, ErrNotFound, Code(err))
	require.Zero(t, r.updateCalls)
}
