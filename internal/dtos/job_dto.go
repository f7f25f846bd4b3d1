package dtos

import "github.com/justsurfingit/job-posts/internal/models"

// Error messages sent on the wire. Clients match on these strings.
const (
	MsgNotFound        = "Not found"
	MsgFieldsRequired  = "All fields are required"
	MsgInternal        = "Internal server error"
	MsgTooManyRequests = "Too many requests"
	MsgDraftFailed     = "Draft extraction failed"
	MsgDraftDisabled   = "Draft extraction is not configured"
	MsgBodyTooLarge    = "Request body too large"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// JobPostRequest is the body of POST and PUT /job-posts.
type JobPostRequest = models.JobPostFormData

type DraftRequest struct {
	RawText string `json:"rawText" binding:"required"`
}

type DraftResponse struct {
	Draft models.JobPostFormData `json:"draft"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Posts  int    `json:"posts"`
}
