package request

type StartAttemptRequest struct {
	SubjectSessionID string `json:"subjectSessionId" binding:"required"`
	ContentID        string `json:"contentId" binding:"required"`
}

type CompleteAttemptRequest struct {
	Token string `json:"token" binding:"required"`
}
