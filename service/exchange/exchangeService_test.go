package exchange

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"bookswap/model"
	notifierrepo "bookswap/repository/notifier"

	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for the transactional boundary: the callback gets a nil
// *sql.Tx, which the repo mocks ignore.
type fakeRunner struct{}

func (fakeRunner) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type repoMock struct {
	insertFn       func(ctx context.Context, er *model.ExchangeRequest) error
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error)
	setStatusFn    func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error
	setAvailFn     func(ctx context.Context, tx *sql.Tx, bookID int64, status model.AvailabilityStatus) error
	listSenderFn   func(ctx context.Context, senderID int64) ([]model.ExchangeRequest, error)
	listReceiverFn func(ctx context.Context, receiverID int64) ([]model.ExchangeRequest, error)
	setStatusCalls int
	setAvailCalls  int
	insertCalls    int
}

func (m *repoMock) Insert(ctx context.Context, er *model.ExchangeRequest) error {
	m.insertCalls++
	if m.insertFn == nil {
		er.ID = 1
		return nil
	}
	return m.insertFn(ctx, er)
}

func (m *repoMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
	return m.getForUpdateFn(ctx, tx, id)
}

func (m *repoMock) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
	m.setStatusCalls++
	if m.setStatusFn == nil {
		return nil
	}
	return m.setStatusFn(ctx, tx, id, status)
}

func (m *repoMock) SetBookAvailability(ctx context.Context, tx *sql.Tx, bookID int64, status model.AvailabilityStatus) error {
	m.setAvailCalls++
	if m.setAvailFn == nil {
		return nil
	}
	return m.setAvailFn(ctx, tx, bookID, status)
}

func (m *repoMock) ListBySender(ctx context.Context, senderID int64) ([]model.ExchangeRequest, error) {
	return m.listSenderFn(ctx, senderID)
}

func (m *repoMock) ListByReceiver(ctx context.Context, receiverID int64) ([]model.ExchangeRequest, error) {
	return m.listReceiverFn(ctx, receiverID)
}

type bookReaderMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *bookReaderMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}

type userReaderMock struct{}

func (userReaderMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	return &model.User{ID: id, Email: "user@example.com"}, nil
}

type notifierMock struct {
	requested int
	responded int
}

func (n *notifierMock) ExchangeRequested(context.Context, string, notifierrepo.ExchangeEvent) error {
	n.requested++
	return nil
}
func (n *notifierMock) ExchangeResponded(context.Context, string, notifierrepo.ExchangeEvent) error {
	n.responded++
	return nil
}
func (n *notifierMock) PasswordReset(context.Context, string, string) error { return nil }

const (
	ownerID    = int64(1)
	senderID   = int64(2)
	strangerID = int64(3)
	bookID     = int64(10)
	requestID  = int64(77)
)

func ownedBook() *model.Book {
	return &model.Book{ID: bookID, OwnerID: ownerID, Title: "Dune", AvailabilityStatus: model.BookAvailable}
}

func pendingRequest() *model.ExchangeRequest {
	return &model.ExchangeRequest{
		ID:         requestID,
		SenderID:   senderID,
		ReceiverID: ownerID,
		BookID:     bookID,
		Status:     model.ExchangePending,
	}
}

func newService(r *repoMock, books *bookReaderMock, n notifierrepo.Repo) Service {
	return New(fakeRunner{}, r, books, userReaderMock{}, n, nil)
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	r := &repoMock{}
	books := &bookReaderMock{byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		require.Equal(t, bookID, id)
		return ownedBook(), nil
	}}
	n := &notifierMock{}
	svc := newService(r, books, n)

	er, err := svc.Create(ctx, senderID, bookID, "courier", "1 week")
	require.NoError(t, err)
	require.Equal(t, senderID, er.SenderID)
	require.Equal(t, ownerID, er.ReceiverID)
	require.Equal(t, model.ExchangePending, er.Status)
	require.Equal(t, "courier", er.DeliveryMethod)
	require.Equal(t, "1 week", er.ExchangeDuration)
	require.Equal(t, 1, n.requested)
}

func TestCreate_OwnBookRejected(t *testing.T) {
	r := &repoMock{}
	books := &bookReaderMock{byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return ownedBook(), nil
	}}
	svc := newService(r, books, &notifierMock{})

	_, err := svc.Create(context.Background(), ownerID, bookID, "courier", "1 week")
	require.Error(t, err)
	require.Equal(t, ErrSelfExchange, Code(err))
	require.Zero(t, r.insertCalls, "no request may be created")
}

func TestCreate_BookMissing(t *testing.T) {
	books := &bookReaderMock{byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	svc := newService(&repoMock{}, books, &notifierMock{})

	_, err := svc.Create(context.Background(), senderID, bookID, "courier", "1 week")
	require.Equal(t, ErrNotFound, Code(err))
}

// --- Accept ---

func TestAccept_Success(t *testing.T) {
	r := &repoMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return pendingRequest(), nil
		},
		setStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			require.Equal(t, requestID, id)
			require.Equal(t, model.ExchangeAccepted, status)
			return nil
		},
		setAvailFn: func(ctx context.Context, tx *sql.Tx, bID int64, status model.AvailabilityStatus) error {
			require.Equal(t, bookID, bID)
			require.Equal(t, model.BookUnavailable, status)
			return nil
		},
	}
	n := &notifierMock{}
	svc := newService(r, &bookReaderMock{}, n)

	er, err := svc.Accept(context.Background(), ownerID, requestID)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeAccepted, er.Status)
	require.Equal(t, 1, r.setStatusCalls)
	require.Equal(t, 1, r.setAvailCalls, "book must flip to unavailable in the same transaction")
	require.Equal(t, 1, n.responded)
}

func TestAccept_NotReceiver(t *testing.T) {
	for _, actor := range []int64{senderID, strangerID} {
		r := &repoMock{
			getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
				return pendingRequest(), nil
			},
		}
		svc := newService(r, &bookReaderMock{}, &notifierMock{})

		_, err := svc.Accept(context.Background(), actor, requestID)
		require.Equal(t, ErrUnauthorized, Code(err), "actor %d", actor)
		require.Zero(t, r.setStatusCalls, "no mutation on authorization failure")
		require.Zero(t, r.setAvailCalls)
	}
}

func TestAccept_AlreadyProcessed(t *testing.T) {
	for _, status := range []model.ExchangeStatus{
		model.ExchangeAccepted, model.ExchangeRejected, model.ExchangeCanceled,
	} {
		r := &repoMock{
			getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
				er := pendingRequest()
				er.Status = status
				return er, nil
			},
		}
		svc := newService(r, &bookReaderMock{}, &notifierMock{})

		_, err := svc.Accept(context.Background(), ownerID, requestID)
		require.Equal(t, ErrInvalidTransition, Code(err), "status %s", status)
		require.Zero(t, r.setStatusCalls)
		require.Zero(t, r.setAvailCalls)
	}
}

func TestAccept_RequestMissing(t *testing.T) {
	r := &repoMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := newService(r, &bookReaderMock{}, &notifierMock{})

	_, err := svc.Accept(context.Background(), ownerID, requestID)
	require.Equal(t, ErrNotFound, Code(err))
}

// --- Reject ---

func TestReject_Success(t *testing.T) {
	r := &repoMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return pendingRequest(), nil
		},
		setStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			require.Equal(t, model.ExchangeRejected, status)
			return nil
		},
	}
	svc := newService(r, &bookReaderMock{}, &notifierMock{})

	er, err := svc.Reject(context.Background(), ownerID, requestID)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeRejected, er.Status)
	require.Zero(t, r.setAvailCalls, "reject must not touch book availability")
}

func TestReject_AlreadyProcessed(t *testing.T) {
	r := &repoMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			er := pendingRequest()
			er.Status = model.ExchangeAccepted
			return er, nil
		},
	}
	svc := newService(r, &bookReaderMock{}, &notifierMock{})

	_, err := svc.Reject(context.Background(), ownerID, requestID)
	require.Equal(t, ErrInvalidTransition, Code(err))
	require.Zero(t, r.setStatusCalls)
}

// --- Cancel ---

func TestCancel_FromPendingAndAccepted(t *testing.T) {
	for _, status := range []model.ExchangeStatus{model.ExchangePending, model.ExchangeAccepted} {
		for _, actor := range []int64{senderID, ownerID} {
			r := &repoMock{
				getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
					er := pendingRequest()
					er.Status = status
					return er, nil
				},
			}
			svc := newService(r, &bookReaderMock{}, &notifierMock{})

			er, err := svc.Cancel(context.Background(), actor, requestID)
			require.NoError(t, err, "status %s actor %d", status, actor)
			require.Equal(t, model.ExchangeCanceled, er.Status)
			require.Zero(t, r.setAvailCalls, "cancel must not revert book availability")
		}
	}
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	for _, status := range []model.ExchangeStatus{model.ExchangeRejected, model.ExchangeCanceled} {
		r := &repoMock{
			getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
				er := pendingRequest()
				er.Status = status
				return er, nil
			},
		}
		svc := newService(r, &bookReaderMock{}, &notifierMock{})

		_, err := svc.Cancel(context.Background(), senderID, requestID)
		require.Equal(t, ErrInvalidTransition, Code(err), "status %s", status)
		require.Zero(t, r.setStatusCalls)
	}
}

func TestCancel_StrangerRejected(t *testing.T) {
	r := &repoMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return pendingRequest(), nil
		},
	}
	svc := newService(r, &bookReaderMock{}, &notifierMock{})

	_, err := svc.Cancel(context.Background(), strangerID, requestID)
	require.Equal(t, ErrUnauthorized, Code(err))
	require.Zero(t, r.setStatusCalls)
}

// Full lifecycle: request, accept, cancel. The book goes unavailable on accept
// and stays unavailable after the cancel.
func TestLifecycle_RequestAcceptCancel(t *testing.T) {
	ctx := context.Background()
	book := ownedBook()
	var stored *model.ExchangeRequest

	r := &repoMock{
		insertFn: func(ctx context.Context, er *model.ExchangeRequest) error {
			er.ID = requestID
			stored = er
			return nil
		},
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			cp := *stored
			return &cp, nil
		},
		setStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			stored.Status = status
			return nil
		},
		setAvailFn: func(ctx context.Context, tx *sql.Tx, bID int64, status model.AvailabilityStatus) error {
			book.AvailabilityStatus = status
			return nil
		},
	}
	books := &bookReaderMock{byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return book, nil
	}}
	svc := newService(r, books, &notifierMock{})

	er, err := svc.Create(ctx, senderID, bookID, "courier", "1 week")
	require.NoError(t, err)
	require.Equal(t, model.ExchangePending, er.Status)

	er, err = svc.Accept(ctx, ownerID, requestID)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeAccepted, er.Status)
	require.Equal(t, model.BookUnavailable, book.AvailabilityStatus)

	// Second accept loses the race against the committed first one.
	_, err = svc.Accept(ctx, ownerID, requestID)
	require.Equal(t, ErrInvalidTransition, Code(err))

	er, err = svc.Cancel(ctx, senderID, requestID)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeCanceled, er.Status)
	require.Equal(t, model.BookUnavailable, book.AvailabilityStatus,
		"cancellation leaves the book unavailable")
}

func TestRequests_ListsBoth(t *testing.T) {
	r := &repoMock{
		listSenderFn: func(ctx context.Context, id int64) ([]model.ExchangeRequest, error) {
			return []model.ExchangeRequest{{ID: 1, SenderID: id}}, nil
		},
		listReceiverFn: func(ctx context.Context, id int64) ([]model.ExchangeRequest, error) {
			return []model.ExchangeRequest{{ID: 2, ReceiverID: id}}, nil
		},
	}
	svc := newService(r, &bookReaderMock{}, &notifierMock{})

	sent, received, err := svc.Requests(context.Background(), senderID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Len(t, received, 1)
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrSelfExchange, Code(makeErr(ErrSelfExchange)))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
