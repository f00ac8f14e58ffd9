package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vpnscout-backend/internal/http/response"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

type AffiliateHandler struct {
	affiliate services.AffiliateSyncService
}

func NewAffiliateHandler(affiliate services.AffiliateSyncService) *AffiliateHandler {
	return &AffiliateHandler{affiliate: affiliate}
}

// GET /api/vpns/:slug/affiliate-links
func (h *AffiliateHandler) ListForVPN(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_slug", "Invalid vpn slug", fmt.Errorf("slug is required"))
		return
	}
	links, err := h.affiliate.ListForVPN(dbctx.From(c.Request.Context()), slug)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_links_failed", "Failed to list affiliate links", err)
		return
	}
	response.RespondOK(c, gin.H{"links": links})
}
