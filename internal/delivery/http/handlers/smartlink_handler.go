package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/response"
	"github.com/lumora/lumora-unlock-service/internal/domain"
)

type SmartlinkHandler struct {
	smartlinkRepo domain.SmartlinkRepository
}

func NewSmartlinkHandler(smartlinkRepo domain.SmartlinkRepository) *SmartlinkHandler {
	return &SmartlinkHandler{smartlinkRepo: smartlinkRepo}
}

func (h *SmartlinkHandler) ListActive(c *gin.Context) {
	links, err := h.smartlinkRepo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]response.SmartlinkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, response.SmartlinkResponse{
			ID:     link.ID,
			URL:    link.URL,
			Weight: link.Weight,
		})
	}

	c.JSON(http.StatusOK, gin.H{"smartlinks": out})
}
