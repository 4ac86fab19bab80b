package messagesvc

import (
	"context"
	"database/sql"
	"testing"

	"bookswap/model"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	insertFn       func(ctx context.Context, m *model.Message) error
	conversationFn func(ctx context.Context, userID, otherID int64) ([]model.Message, error)
	inboxFn        func(ctx context.Context, receiverID int64) ([]model.Message, error)
	sentFn         func(ctx context.Context, senderID int64) ([]model.Message, error)
	markReadCalls  int
}

func (m *repoMock) Insert(ctx context.Context, msg *model.Message) error {
	if m.insertFn == nil {
		msg.ID = 1
		return nil
	}
	return m.insertFn(ctx, msg)
}
func (m *repoMock) Conversation(ctx context.Context, userID, otherID int64) ([]model.Message, error) {
	return m.conversationFn(ctx, userID, otherID)
}
func (m *repoMock) Inbox(ctx context.Context, receiverID int64) ([]model.Message, error) {
	return m.inboxFn(ctx, receiverID)
}
func (m *repoMock) Sent(ctx context.Context, senderID int64) ([]model.Message, error) {
	return m.sentFn(ctx, senderID)
}
func (m *repoMock) MarkRead(ctx context.Context, receiverID, senderID int64) error {
	m.markReadCalls++
	return nil
}

type usersMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return &model.User{ID: id}, nil
	}
	return m.byIDFn(ctx, id)
}

func TestSend_Success(t *testing.T) {
	svc := New(&repoMock{}, &usersMock{})
	m, err := svc.Send(context.Background(), 1, 2, "hi there")
	require.NoError(t, err)
	require.Equal(t, int64(1), m.SenderID)
	require.Equal(t, int64(2), m.ReceiverID)
}

func TestSend_ToSelf(t *testing.T) {
	svc := New(&repoMock{}, &usersMock{})
	_, err := svc.Send(context.Background(), 1, 1, "hi")
	require.Equal(t, ErrSelfMessage, Code(err))
}

func TestSend_EmptyContent(t *testing.T) {
	svc := New(&repoMock{}, &usersMock{})
	_, err := svc.Send(context.Background(), 1, 2, "   ")
	require.Equal(t, ErrBadInput, Code(err))
}

func TestSend_ReceiverMissing(t *testing.T) {
	users := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(&repoMock{}, users)
	_, err := svc.Send(context.Background(), 1, 2, "hi")
	require.Equal(t, ErrNotFound, Code(err))
}

func TestConversation_MarksRead(t *testing.T) {
	r := &repoMock{
		conversationFn: func(ctx context.Context, userID, otherID int64) ([]model.Message, error) {
			return []model.Message{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := New(r, &usersMock{})

	msgs, err := svc.Conversation(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, 1, r.markReadCalls)
}

func TestConversation_WithSelf(t *testing.T) {
	svc := New(&repoMock{}, &usersMock{})
	_, err := svc.Conversation(context.Background(), 1, 1)
	require.Equal(t, ErrSelfMessage, Code(err))
}
