package response

type ErrorResponse struct {
	Error            string `json:"error"`
	WaitSeconds      int64  `json:"waitSeconds,omitempty"`
	RemainingSeconds int64  `json:"remainingSeconds,omitempty"`
}
