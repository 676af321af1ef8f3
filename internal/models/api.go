package models

import "time"

type CreateHelpRequest struct {
	CallerName  string  `json:"caller_name" binding:"required"`
	Question    string  `json:"question" binding:"required"`
	LivekitRoom *string `json:"livekit_room"`
}

type SupervisorAnswer struct {
	SupervisorResponse string `json:"supervisor_response" binding:"required"`
	Status             string `json:"status" binding:"required"` // "resolved" or "unresolved"
	SaveToKB           bool   `json:"save_to_kb"`
}

type KBCreate struct {
	QuestionPattern string `json:"question_pattern" binding:"required"`
	Answer          string `json:"answer" binding:"required"`
	Source          string `json:"source"`
}

// KBMatch is one ranked KB search result.
type KBMatch struct {
	ID              string    `json:"id"`
	QuestionPattern string    `json:"question_pattern"`
	Answer          string    `json:"answer"`
	Source          string    `json:"source"`
	Score           float64   `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateRequestResult is the outcome of the KB-first create flow. When the
// decision engine is confident, Created is false and KBMatch carries the
// answer; otherwise Request holds the persisted pending request and
// KBSuggestion any low-confidence candidate for supervisor context.
type CreateRequestResult struct {
	Created      bool         `json:"created"`
	Request      *HelpRequest `json:"request,omitempty"`
	KBMatch      *KBMatch     `json:"kb_match,omitempty"`
	KBSuggestion *KBMatch     `json:"kb_suggestion,omitempty"`
	Message      string       `json:"message"`
}

type FollowUpResult struct {
	FollowUp string `json:"follow_up"`
}

type TokenResponse struct {
	Token      string `json:"token"`
	LivekitURL string `json:"livekit_url"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
