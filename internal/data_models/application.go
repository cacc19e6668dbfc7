package dto

type ApplyRequest struct {
	ProposedPrice float64 `json:"proposed_price"`
	Message       string  `json:"message"`
}
