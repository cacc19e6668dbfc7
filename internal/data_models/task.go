package dto

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	CategoryID  *string `json:"category_id"`
	IsUrgent    bool    `json:"is_urgent"`
	Publish     bool    `json:"publish"`
}

type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
