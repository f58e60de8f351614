package request

type SpendRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
	Coins     int64  `json:"coins" binding:"required,gt=0"`
}

type SpendCardRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
	Cost      int64  `json:"cost" binding:"required,gt=0"`
}

type ActivatePriorityRequest struct {
	SubjectID     string `json:"subjectId" binding:"required"`
	Cost          int64  `json:"cost" binding:"required,gt=0"`
	DurationHours int64  `json:"durationHours" binding:"required,gt=0"`
}
