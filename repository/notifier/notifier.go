package notifierrepo

import "context"

// ExchangeEvent describes a lifecycle change worth notifying a user about.
type ExchangeEvent struct {
	RequestID int64
	BookTitle string
	Sender    string
	Receiver  string
	Status    string
}

// Repo delivers user notifications. Delivery is fire-and-forget: callers log
// failures and move on, the core contract never depends on it.
type Repo interface {
	ExchangeRequested(ctx context.Context, recipientEmail string, ev ExchangeEvent) error
	ExchangeResponded(ctx context.Context, recipientEmail string, ev ExchangeEvent) error
	PasswordReset(ctx context.Context, recipientEmail, resetToken string) error
}
