package messagesvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	messagerepo "bookswap/repository/message"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrSelfMessage ErrCode = "SELF_MESSAGE"
	ErrBadInput    ErrCode = "BAD_INPUT"
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

// UserReader checks the recipient exists before a message is written.
type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	Send(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error)

	// Conversation returns both directions oldest-first and marks the other
	// party's messages read.
	Conversation(ctx context.Context, userID, otherID int64) ([]model.Message, error)
	Inbox(ctx context.Context, userID int64) ([]model.Message, error)
	Sent(ctx context.Context, userID int64) ([]model.Message, error)
}

type service struct {
	r     messagerepo.Repo
	users UserReader
}

func New(r messagerepo.Repo, users UserReader) Service {
	return &service{r: r, users: users}
}

func (s *service) Send(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, makeErr(ErrBadInput)
	}
	if senderID == receiverID {
		return nil, makeErr(ErrSelfMessage)
	}
	if _, err := s.users.ByID(ctx, receiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	m := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.r.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Conversation(ctx context.Context, userID, otherID int64) ([]model.Message, error) {
	if userID == otherID {
		return nil, makeErr(ErrSelfMessage)
	}
	if _, err := s.users.ByID(ctx, otherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	msgs, err := s.r.Conversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.r.MarkRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *service) Inbox(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.r.Inbox(ctx, userID)
}

func (s *service) Sent(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.r.Sent(ctx, userID)
}
