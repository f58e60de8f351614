package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/request"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/response"
	"github.com/lumora/lumora-unlock-service/internal/usecase"
	attemptdto "github.com/lumora/lumora-unlock-service/internal/usecase/dto/attempt"
)

type AttemptHandler struct {
	attemptUsecase usecase.AttemptUsecase
}

func NewAttemptHandler(attemptUsecase usecase.AttemptUsecase) *AttemptHandler {
	return &AttemptHandler{attemptUsecase: attemptUsecase}
}

func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req request.StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	output, err := h.attemptUsecase.StartAttempt(c.Request.Context(), &attemptdto.StartAttemptInput{
		SubjectSessionID: req.SubjectSessionID,
		ContentID:        req.ContentID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.StartAttemptResponse{
		Token:           output.Token,
		StartedAt:       output.StartedAt,
		MinWatchSeconds: output.MinWatchSeconds,
		SmartlinkURL:    output.SmartlinkURL,
		SmartlinkID:     output.SmartlinkID,
	})
}

func (h *AttemptHandler) CompleteAttempt(c *gin.Context) {
	var req request.CompleteAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	output, err := h.attemptUsecase.CompleteAttempt(c.Request.Context(), req.Token)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.CompleteAttemptResponse{
		Session:  response.SessionFromDomain(&output.Session),
		Unlocked: output.Unlocked,
	})
}

// GetSession is get-or-create: the first call for a (subject, content) pair
// creates the session with the resolved ad requirement.
func (h *AttemptHandler) GetSession(c *gin.Context) {
	subjectID := c.Query("subjectSessionId")
	contentID := c.Query("contentId")
	if subjectID == "" || contentID == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "subjectSessionId and contentId are required"})
		return
	}

	session, err := h.attemptUsecase.GetOrCreateSession(c.Request.Context(), subjectID, contentID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SessionFromDomain(session))
}
