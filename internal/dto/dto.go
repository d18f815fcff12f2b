package dto

import "storefront/internal/model"

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ShippingRequest struct {
	model.ShippingInfo
}

type CompletePaymentRequest struct {
	PaymentInfo model.PaymentInfo `json:"paymentInfo"`
}

type PaymentProcessResponse struct {
	ClientSecret string `json:"client_secret"`
	IntentID     string `json:"intent_id"`
	Amount       int64  `json:"amount"`
}
