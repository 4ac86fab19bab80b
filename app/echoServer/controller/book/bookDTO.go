package book

type BookReq struct {
	Title        string `json:"title" validate:"required,max=100"`
	Author       string `json:"author" validate:"required,max=100"`
	Genre        string `json:"genre" validate:"required,max=50"`
	Condition    string `json:"condition" validate:"required,max=20"`
	Location     string `json:"location" validate:"required,max=100"`
	Availability string `json:"availability" validate:"omitempty,oneof=available unavailable"`
}

type SearchReq struct {
	Query        string `query:"q"`
	Genre        string `query:"genre"`
	Availability string `query:"availability" validate:"omitempty,oneof=available unavailable"`
	Location     string `query:"location"`
	Page         int    `query:"page"`
	PerPage      int    `query:"per_page"`
}
