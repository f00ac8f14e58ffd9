package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vpnscout-backend/internal/http/response"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

type PostHandler struct {
	summaries services.PostSummaryService
}

func NewPostHandler(summaries services.PostSummaryService) *PostHandler {
	return &PostHandler{summaries: summaries}
}

// GET /api/posts/summaries?lang=en
func (h *PostHandler) GetSummaries(c *gin.Context) {
	posts, err := h.summaries.GetSummaries(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "summaries_failed", "Failed to load posts", err)
		return
	}
	response.RespondOK(c, gin.H{"posts": posts})
}

type invalidateRequest struct {
	Language string `json:"language"`
}

// POST /api/posts/summaries/invalidate
func (h *PostHandler) InvalidateSummaries(c *gin.Context) {
	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", "Invalid invalidate request", err)
		return
	}
	if err := h.summaries.Invalidate(c.Request.Context(), req.Language); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "invalidate_failed", "Failed to invalidate cache", err)
		return
	}
	c.Status(http.StatusNoContent)
}
