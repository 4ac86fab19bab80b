package transactionrepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, t *model.Transaction) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus) error
	ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, t *model.Transaction) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, exchange_request_id, status)
		VALUES ($1,$2,$3)
		RETURNING id, timestamp`,
		t.UserID, t.ExchangeRequestID, t.Status,
	).Scan(&t.ID, &t.Timestamp)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, exchange_request_id, status, timestamp
		FROM transactions
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&t.ID, &t.UserID, &t.ExchangeRequestID, &t.Status, &t.Timestamp)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2
		WHERE id = $1`, id, status)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, exchange_request_id, status, timestamp
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.ExchangeRequestID, &t.Status, &t.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
