package exchange

type CreateExchangeReq struct {
	DeliveryMethod   string `json:"delivery_method" validate:"required"`
	ExchangeDuration string `json:"exchange_duration" validate:"required"`
}
