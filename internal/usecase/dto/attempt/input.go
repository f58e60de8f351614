package attemptdto

type StartAttemptInput struct {
	SubjectSessionID string
	ContentID        string
}
