package transaction

import (
	"context"
	"database/sql"
	"errors"

	exchangesvc "bookswap/service/exchange"

	transactionrepo "bookswap/repository/transaction"
	"bookswap/util/database"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrUnauthorized      ErrCode = "UNAUTHORIZED"
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

type Service interface {
	// CancelExchange cancels the underlying exchange request. This is the
	// cancellation path the transactions page drives; it never touches
	// Transaction rows.
	CancelExchange(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error)

	// Overview lists the user's sent and received exchange requests.
	Overview(ctx context.Context, userID int64) (sent, received []model.ExchangeRequest, err error)

	// Standalone transaction records. No code path creates one on exchange
	// acceptance; rows exist only through these operations.
	CreateRecord(ctx context.Context, userID, exchangeRequestID int64) (*model.Transaction, error)
	CompleteRecord(ctx context.Context, actorID, transactionID int64) (*model.Transaction, error)
	CancelRecord(ctx context.Context, actorID, transactionID int64) (*model.Transaction, error)
	Records(ctx context.Context, userID int64) ([]model.Transaction, error)
}

// ----- Service implementation -----

type service struct {
	runner    database.TxRunner
	r         transactionrepo.Repo
	exchanges exchangesvc.Service
}

func New(runner database.TxRunner, r transactionrepo.Repo, exchanges exchangesvc.Service) Service {
	return &service{runner: runner, r: r, exchanges: exchanges}
}

func (s *service) CancelExchange(ctx context.Context, actorID, requestID int64) (*model.ExchangeRequest, error) {
	return s.exchanges.Cancel(ctx, actorID, requestID)
}

func (s *service) Overview(ctx context.Context, userID int64) ([]model.ExchangeRequest, []model.ExchangeRequest, error) {
	return s.exchanges.Requests(ctx, userID)
}

func (s *service) CreateRecord(ctx context.Context, userID, exchangeRequestID int64) (*model.Transaction, error) {
	t := &model.Transaction{
		UserID:            userID,
		ExchangeRequestID: exchangeRequestID,
		Status:            model.TransactionInitiated,
	}
	if err := s.r.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) CompleteRecord(ctx context.Context, actorID, transactionID int64) (*model.Transaction, error) {
	return s.transition(ctx, actorID, transactionID, model.TransactionCompleted)
}

func (s *service) CancelRecord(ctx context.Context, actorID, transactionID int64) (*model.Transaction, error) {
	return s.transition(ctx, actorID, transactionID, model.TransactionCancelled)
}

// transition moves an initiated record to a terminal status under a row lock,
// same discipline as the exchange workflow.
func (s *service) transition(ctx context.Context, actorID, transactionID int64, to model.TransactionStatus) (*model.Transaction, error) {
	var t *model.Transaction
	err := s.runner.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		t, err = s.r.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		if t.UserID != actorID {
			return makeErr(ErrUnauthorized)
		}
		if t.Status != model.TransactionInitiated {
			return makeErr(ErrInvalidTransition)
		}
		if err := s.r.SetStatus(ctx, tx, t.ID, to); err != nil {
			return err
		}
		t.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Records(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return s.r.ListByUser(ctx, userID)
}
