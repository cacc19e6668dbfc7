package dto

// MessageSentRequest is posted by the chat service after it stored a message.
type MessageSentRequest struct {
	RecipientProfileID string `json:"recipient_profile_id"`
	Body               string `json:"body"`
}

// PaymentEventRequest is posted by the payment gateway glue.
type PaymentEventRequest struct {
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
}
