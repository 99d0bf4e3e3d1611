package api

// JapaRequest is the body of POST /api/japa. Date defaults to now.
type JapaRequest struct {
	Malas int    `json:"malas"`
	Date  string `json:"date,omitempty"`
}

// RecitationRequest is the body of POST /api/recitations. The title is
// looked up in the catalog when omitted, and count defaults to 1.
type RecitationRequest struct {
	StotraID    string `json:"stotraId"`
	StotraTitle string `json:"stotraTitle,omitempty"`
	Count       int    `json:"count,omitempty"`
	Date        string `json:"date,omitempty"`
}

// GratitudeRequest is the body of POST /api/journal.
type GratitudeRequest struct {
	Note string `json:"note"`
	Date string `json:"date,omitempty"`
}

// GoalRequest is the body of POST /api/goals. A missing id is generated.
type GoalRequest struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// GoalStatusRequest is the body of PUT /api/goals/{id}/status.
type GoalStatusRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
