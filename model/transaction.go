package model

import "time"

type TransactionStatus string

const (
	TransactionInitiated TransactionStatus = "initiated"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction records the fulfilment of an exchange request. Nothing creates
// one automatically on acceptance; rows come only from the records endpoints.
type Transaction struct {
	ID                int64             `json:"id"`
	UserID            int64             `json:"user_id"`
	ExchangeRequestID int64             `json:"exchange_request_id"`
	Status            TransactionStatus `json:"status"`
	Timestamp         time.Time         `json:"timestamp"`
}
