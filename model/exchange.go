package model

import "time"

type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "pending"
	ExchangeAccepted ExchangeStatus = "accepted"
	ExchangeRejected ExchangeStatus = "rejected"
	ExchangeCanceled ExchangeStatus = "canceled"
)

// ExchangeRequest is a proposal from sender to borrow receiver's book.
// The receiver is always the book's owner at creation time; books are not
// transferable, so the pairing never goes stale.
type ExchangeRequest struct {
	ID               int64          `json:"id"`
	SenderID         int64          `json:"sender_id"`
	ReceiverID       int64          `json:"receiver_id"`
	BookID           int64          `json:"book_id"`
	DeliveryMethod   string         `json:"delivery_method"`
	ExchangeDuration string         `json:"exchange_duration"`
	Status           ExchangeStatus `json:"status"`
	Timestamp        time.Time      `json:"timestamp"`

	// Joined fields (not always populated).
	BookTitle        string `json:"book_title,omitempty"`
	SenderUsername   string `json:"sender_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}

// CanRespond reports whether actor may accept or reject this request.
func (r *ExchangeRequest) CanRespond(actorID int64) bool {
	return r.ReceiverID == actorID
}

// CanCancel reports whether actor may cancel this request.
// Both parties may cancel; nobody else.
func (r *ExchangeRequest) CanCancel(actorID int64) bool {
	return r.SenderID == actorID || r.ReceiverID == actorID
}

// Cancelable reports whether the request's status still permits cancellation.
func (r *ExchangeRequest) Cancelable() bool {
	return r.Status == ExchangePending || r.Status == ExchangeAccepted
}
