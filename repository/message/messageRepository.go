package messagerepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, m *model.Message) error
	Conversation(ctx context.Context, userID, otherID int64) ([]model.Message, error)
	Inbox(ctx context.Context, receiverID int64) ([]model.Message, error)
	Sent(ctx context.Context, senderID int64) ([]model.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, m *model.Message) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1,$2,$3)
		RETURNING id, timestamp, read`,
		m.SenderID, m.ReceiverID, m.Content,
	).Scan(&m.ID, &m.Timestamp, &m.Read)
}

const msgCols = `
	m.id, m.sender_id, m.receiver_id, m.content, m.timestamp, m.read,
	su.username AS sender_username,
	ru.username AS receiver_username`

func (r *repo) Conversation(ctx context.Context, userID, otherID int64) ([]model.Message, error) {
	return r.list(ctx, `
		(m.sender_id = $1 AND m.receiver_id = $2) OR
		(m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.timestamp ASC, m.id ASC`, userID, otherID)
}

func (r *repo) Inbox(ctx context.Context, receiverID int64) ([]model.Message, error) {
	return r.list(ctx, `m.receiver_id = $1 ORDER BY m.timestamp DESC, m.id DESC`, receiverID)
}

func (r *repo) Sent(ctx context.Context, senderID int64) ([]model.Message, error) {
	return r.list(ctx, `m.sender_id = $1 ORDER BY m.timestamp DESC, m.id DESC`, senderID)
}

func (r *repo) MarkRead(ctx context.Context, receiverID, senderID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE`,
		receiverID, senderID)
	return err
}

func (r *repo) list(ctx context.Context, condAndOrder string, args ...any) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+msgCols+`
		FROM messages m
		JOIN users su ON su.id = m.sender_id
		JOIN users ru ON ru.id = m.receiver_id
		WHERE `+condAndOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Timestamp, &m.Read,
			&m.SenderUsername, &m.ReceiverUsername,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
