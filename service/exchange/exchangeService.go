package exchange

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	exchangerepo "bookswap/repository/exchange"
	notifierrepo "bookswap/repository/notifier"
	"bookswap/util/database"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrUnauthorized      ErrCode = "UNAUTHORIZED"
	ErrSelfExchange      ErrCode = "SELF_EXCHANGE"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
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

// BookReader resolves the listing an exchange request targets.
type BookReader interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
}

// UserReader resolves notification recipients.
type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	// Create opens a pending request against someone else's book.
	Create(ctx context.Context, senderID, bookID int64, deliveryMethod, exchangeDuration string) (*model.ExchangeRequest, error)

	// Accept marks the request accepted and the book unavailable, atomically.
	Accept(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error)

	// Reject marks the request rejected; the book is untouched.
	Reject(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error)

	// Cancel marks a pending or accepted request canceled.
	Cancel(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error)

	// Requests lists what the user sent and received, newest first.
	Requests(ctx context.Context, userID int64) (sent, received []model.ExchangeRequest, err error)
}

// ----- Service implementation -----

type service struct {
	runner database.TxRunner
	r      exchangerepo.Repo
	books  BookReader
	users  UserReader
	n      notifierrepo.Repo
	log    *slog.Logger
}

func New(runner database.TxRunner, r exchangerepo.Repo, books BookReader, users UserReader, n notifierrepo.Repo, log *slog.Logger) Service {
	return &service{runner: runner, r: r, books: books, users: users, n: n, log: log}
}

func (s *service) Create(ctx context.Context, senderID, bookID int64, deliveryMethod, exchangeDuration string) (*model.ExchangeRequest, error) {
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !book.CanRequestExchange(senderID) {
		return nil, makeErr(ErrSelfExchange)
	}

	er := &model.ExchangeRequest{
		SenderID:         senderID,
		ReceiverID:       book.OwnerID,
		BookID:           book.ID,
		DeliveryMethod:   deliveryMethod,
		ExchangeDuration: exchangeDuration,
		Status:           model.ExchangePending,
	}
	if err := s.r.Insert(ctx, er); err != nil {
		return nil, err
	}

	s.notify(ctx, er, book.Title, true)
	return er, nil
}

func (s *service) Accept(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error) {
	er, err := s.respond(ctx, actorID, requestID, model.ExchangeAccepted)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, er, "", false)
	return er, nil
}

func (s *service) Reject(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error) {
	er, err := s.respond(ctx, actorID, requestID, model.ExchangeRejected)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, er, "", false)
	return er, nil
}

// respond applies accept/reject under a single transaction. The row lock on
// the request serializes concurrent responders; whoever commits first wins and
// the other sees a non-pending status here.
func (s *service) respond(ctx context.Context, actorID, requestID int64, to model.ExchangeStatus) (*model.ExchangeRequest, error) {
	var er *model.ExchangeRequest
	err := s.runner.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		er, err = s.r.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		if !er.CanRespond(actorID) {
			return makeErr(ErrUnauthorized)
		}
		if er.Status != model.ExchangePending {
			return makeErr(ErrInvalidTransition)
		}
		if err := s.r.SetStatus(ctx, tx, er.ID, to); err != nil {
			return err
		}
		if to == model.ExchangeAccepted {
			if err := s.r.SetBookAvailability(ctx, tx, er.BookID, model.BookUnavailable); err != nil {
				return err
			}
		}
		er.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return er, nil
}

func (s *service) Cancel(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error) {
	var er *model.ExchangeRequest
	err := s.runner.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		er, err = s.r.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		if !er.CanCancel(actorID) {
			return makeErr(ErrUnauthorized)
		}
		if !er.Cancelable() {
			return makeErr(ErrInvalidTransition)
		}
		// A book made unavailable by a prior acceptance stays unavailable;
		// cancellation touches only the request.
		if err := s.r.SetStatus(ctx, tx, er.ID, model.ExchangeCanceled); err != nil {
			return err
		}
		er.Status = model.ExchangeCanceled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return er, nil
}

func (s *service) Requests(ctx context.Context, userID int64) ([]model.ExchangeRequest, []model.ExchangeRequest, error) {
	sent, err := s.r.ListBySender(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	received, err := s.r.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return sent, received, nil
}

// notify delivers a best-effort notification to the counterparty. Failures
// are logged and never surface to the caller.
func (s *service) notify(ctx context.Context, er *model.ExchangeRequest, bookTitle string, created bool) {
	if s.n == nil {
		return
	}
	recipientID := er.ReceiverID
	if !created {
		recipientID = er.SenderID
	}
	recipient, err := s.users.ByID(ctx, recipientID)
	if err != nil {
		s.logWarn("notify recipient lookup", err)
		return
	}
	ev := notifierrepo.ExchangeEvent{
		RequestID: er.ID,
		BookTitle: bookTitle,
		Status:    string(er.Status),
	}
	if created {
		err = s.n.ExchangeRequested(ctx, recipient.Email, ev)
	} else {
		err = s.n.ExchangeResponded(ctx, recipient.Email, ev)
	}
	if err != nil {
		s.logWarn("notify delivery", err)
	}
}

func (s *service) logWarn(msg string, err error) {
	if s.log != nil {
		s.log.Warn(msg, "err", err)
	}
}
