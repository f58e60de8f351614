package response

import (
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
)

type SessionResponse struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subjectId"`
	ContentID   string    `json:"contentId"`
	AdsRequired int32     `json:"adsRequired"`
	AdsWatched  int32     `json:"adsWatched"`
	Completed   bool      `json:"completed"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func SessionFromDomain(s *domain.UnlockSession) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		SubjectID:   s.SubjectID,
		ContentID:   s.ContentID,
		AdsRequired: s.AdsRequired,
		AdsWatched:  s.AdsWatched,
		Completed:   s.Completed,
		UpdatedAt:   s.UpdatedAt,
	}
}

type StartAttemptResponse struct {
	Token           string    `json:"token"`
	StartedAt       time.Time `json:"startedAt"`
	MinWatchSeconds int64     `json:"minWatchSeconds"`
	SmartlinkURL    string    `json:"smartlinkUrl"`
	SmartlinkID     string    `json:"smartlinkId,omitempty"`
}

type CompleteAttemptResponse struct {
	Session  SessionResponse `json:"session"`
	Unlocked bool            `json:"unlocked"`
}

type SmartlinkResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Weight int32  `json:"weight"`
}
