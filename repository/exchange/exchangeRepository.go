package exchangerepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, r *model.ExchangeRequest) error

	// GetForUpdate locks the request row so concurrent responders serialize;
	// the loser re-reads whatever status the winner committed.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error
	SetBookAvailability(ctx context.Context, tx *sql.Tx, bookID int64, status model.AvailabilityStatus) error

	ListBySender(ctx context.Context, senderID int64) ([]model.ExchangeRequest, error)
	ListByReceiver(ctx context.Context, receiverID int64) ([]model.ExchangeRequest, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, er *model.ExchangeRequest) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO exchange_requests (sender_id, receiver_id, book_id, delivery_method, exchange_duration, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, timestamp`,
		er.SenderID, er.ReceiverID, er.BookID, er.DeliveryMethod, er.ExchangeDuration, er.Status,
	).Scan(&er.ID, &er.Timestamp)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
	er := &model.ExchangeRequest{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, sender_id, receiver_id, book_id, delivery_method, exchange_duration, status, timestamp
		FROM exchange_requests
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&er.ID, &er.SenderID, &er.ReceiverID, &er.BookID,
		&er.DeliveryMethod, &er.ExchangeDuration, &er.Status, &er.Timestamp)
	if err != nil {
		return nil, err
	}
	return er, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE exchange_requests
		SET status = $2
		WHERE id = $1`, id, status)
	return err
}

func (r *repo) SetBookAvailability(ctx context.Context, tx *sql.Tx, bookID int64, status model.AvailabilityStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE books
		SET availability_status = $2
		WHERE id = $1`, bookID, status)
	return err
}

const listCols = `
	er.id, er.sender_id, er.receiver_id, er.book_id,
	er.delivery_method, er.exchange_duration, er.status, er.timestamp,
	b.title AS book_title,
	su.username AS sender_username,
	ru.username AS receiver_username`

func (r *repo) ListBySender(ctx context.Context, senderID int64) ([]model.ExchangeRequest, error) {
	return r.list(ctx, `er.sender_id = $1`, senderID)
}

func (r *repo) ListByReceiver(ctx context.Context, receiverID int64) ([]model.ExchangeRequest, error) {
	return r.list(ctx, `er.receiver_id = $1`, receiverID)
}

func (r *repo) list(ctx context.Context, cond string, arg any) ([]model.ExchangeRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+listCols+`
		FROM exchange_requests er
		JOIN books b ON b.id = er.book_id
		JOIN users su ON su.id = er.sender_id
		JOIN users ru ON ru.id = er.receiver_id
		WHERE `+cond+`
		ORDER BY er.timestamp DESC, er.id DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExchangeRequest
	for rows.Next() {
		var er model.ExchangeRequest
		if err := rows.Scan(
			&er.ID, &er.SenderID, &er.ReceiverID, &er.BookID,
			&er.DeliveryMethod, &er.ExchangeDuration, &er.Status, &er.Timestamp,
			&er.BookTitle, &er.SenderUsername, &er.ReceiverUsername,
		); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}
