package api

import "time"

// ChatRequest is the body of POST /api/chat/message.
type ChatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the reply envelope the web widget expects. Sources is
// reserved for retrieval citations and currently always empty.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
	Sources        []string  `json:"sources"`
}

// FeedbackRequest is the body of POST /api/chat/feedback.
type FeedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	Rating         int    `json:"rating"`
	Feedback       string `json:"feedback,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
