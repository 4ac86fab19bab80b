package model

import "time"

type AvailabilityStatus string

const (
	BookAvailable   AvailabilityStatus = "available"
	BookUnavailable AvailabilityStatus = "unavailable"
)

type Book struct {
	ID                 int64              `json:"id"`
	OwnerID            int64              `json:"owner_id"`
	Title              string             `json:"title"`
	Author             string             `json:"author"`
	Genre              string             `json:"genre"`
	Condition          string             `json:"condition"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
	Location           string             `json:"location"`
	CoverImage         *string            `json:"cover_image,omitempty"`
	DatePosted         time.Time          `json:"date_posted"`
}

// CanRequestExchange reports whether actor may open an exchange request
// against this book. Owners cannot request their own listings.
func (b *Book) CanRequestExchange(actorID int64) bool {
	return b.OwnerID != actorID
}

// BookSearch carries the filters for the public listing search.
type BookSearch struct {
	Query        string
	Genre        string
	Availability AvailabilityStatus
	Location     string
	Page         int
	PerPage      int
}
